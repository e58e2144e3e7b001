package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords/*.yaml
var builtinFS embed.FS

// stringList accepts either a scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = stringList{n.Value}
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: expected string or list", n.Line)
}

type itemDef struct {
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"`
	Size      string     `yaml:"size"`
	Default   yaml.Node  `yaml:"default"`
	Dimension stringList `yaml:"dimension"`
}

type sizeDef struct {
	Keyword string `yaml:"keyword"`
	Item    string `yaml:"item"`
	Shift   int    `yaml:"shift"`
}

type keywordDef struct {
	Name        string      `yaml:"name"`
	DeckNames   []string    `yaml:"deck_names"`
	Match       string      `yaml:"match"`
	Sections    []string    `yaml:"sections"`
	Size        yaml.Node   `yaml:"size"`
	Items       []itemDef   `yaml:"items"`
	Records     [][]itemDef `yaml:"records"`
	Description string      `yaml:"description"`
}

type fileDef struct {
	Sections []string     `yaml:"sections"`
	Keywords []keywordDef `yaml:"keywords"`
}

// LoadYAML decodes a keyword definition document. A top-level sections list
// applies to every keyword that does not list its own.
func LoadYAML(data []byte) ([]*Keyword, error) {
	var f fileDef
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode keyword definitions: %w", err)
	}
	out := make([]*Keyword, 0, len(f.Keywords))
	for i := range f.Keywords {
		kd := &f.Keywords[i]
		if kd.Sections == nil {
			kd.Sections = f.Sections
		}
		k, err := kd.build()
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func (kd *keywordDef) build() (*Keyword, error) {
	k := &Keyword{
		Name:        kd.Name,
		DeckNames:   kd.DeckNames,
		Match:       kd.Match,
		Sections:    kd.Sections,
		Description: kd.Description,
	}

	recordDefs := kd.Records
	if len(kd.Items) > 0 {
		if len(recordDefs) > 0 {
			return nil, fmt.Errorf("keyword %s: use either items or records", kd.Name)
		}
		recordDefs = [][]itemDef{kd.Items}
	}
	for _, rd := range recordDefs {
		r := &Record{}
		for _, id := range rd {
			it, err := id.build()
			if err != nil {
				return nil, fmt.Errorf("keyword %s: %w", kd.Name, err)
			}
			r.Items = append(r.Items, it)
		}
		k.Records = append(k.Records, r)
	}

	if err := kd.buildSize(k, len(recordDefs) > 0); err != nil {
		return nil, err
	}
	return k, nil
}

func (kd *keywordDef) buildSize(k *Keyword, hasRecords bool) error {
	n := &kd.Size
	switch n.Kind {
	case 0:
		if hasRecords {
			k.Size = SlashTerminated
		} else {
			k.Size = Fixed
		}
		return nil
	case yaml.ScalarNode:
		switch strings.ToLower(n.Value) {
		case "slash":
			k.Size = SlashTerminated
			return nil
		case "unknown":
			k.Size = Unknown
			return nil
		}
		size, err := strconv.Atoi(n.Value)
		if err != nil {
			return fmt.Errorf("keyword %s: invalid size %q", kd.Name, n.Value)
		}
		k.Size, k.FixedSize = Fixed, size
		return nil
	case yaml.MappingNode:
		var sd sizeDef
		if err := n.Decode(&sd); err != nil {
			return fmt.Errorf("keyword %s: size: %w", kd.Name, err)
		}
		k.Size = OtherKeyword
		k.SizeKeyword, k.SizeItem, k.SizeShift = sd.Keyword, sd.Item, sd.Shift
		return nil
	}
	return fmt.Errorf("keyword %s: unsupported size definition", kd.Name)
}

func (id *itemDef) build() (*Item, error) {
	typ, err := ParseItemType(id.Type)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id.Name, err)
	}
	it := &Item{Name: id.Name, Type: typ, Dimensions: id.Dimension}
	switch strings.ToUpper(id.Size) {
	case "", "SINGLE":
		it.Cardinality = Single
	case "ALL":
		it.Cardinality = All
	default:
		return nil, fmt.Errorf("item %s: invalid size %q", id.Name, id.Size)
	}
	if typ != Double && len(it.Dimensions) > 0 {
		return nil, fmt.Errorf("item %s: only DOUBLE items carry dimensions", id.Name)
	}

	if id.Default.Kind == 0 {
		return it, nil
	}
	it.HasDefault = true
	v := id.Default.Value
	switch typ {
	case Int:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid int default %q", id.Name, v)
		}
		it.IntDefault = n
	case Double:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid double default %q", id.Name, v)
		}
		it.DblDefault = f
	default:
		it.StrDefault = v
	}
	return it, nil
}

// LoadFS decodes every *.yaml file under dir of fsys, in name order.
func LoadFS(fsys fs.FS, dir string) ([]*Keyword, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read keyword definitions: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []*Keyword
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		ks, err := LoadYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, ks...)
	}
	return out, nil
}

// Builtin builds the registry of built-in keyword schemas.
func Builtin() (*Registry, error) {
	b := NewBuilder()
	if err := b.AddBuiltin(); err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

// AddBuiltin registers the built-in schemas into b, for callers that extend
// the built-in set before freezing.
func (b *Builder) AddBuiltin() error {
	ks, err := LoadFS(builtinFS, "keywords")
	if err != nil {
		return err
	}
	for _, k := range ks {
		if err := b.Add(k); err != nil {
			return err
		}
	}
	return nil
}
