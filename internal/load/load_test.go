package load

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rcliao/simdeck/internal/diag"
)

const deckText = `RUNSPEC
DIMENS
 3 3 2 /
OIL
WATER
METRIC
START
 1 JAN 2010 /
GRID
DX
 18*50 /
DY
 18*50 /
DZ
 18*5 /
TOPS
 9*1000 /
PERMX
 18*200 /
PERMY
 18*200 /
PORO
 18*0.25 /
PROPS
SOLUTION
SCHEDULE
INCLUDE
 'wells.inc' /
TSTEP
 10 /
`

const wellsText = `WELSPECS
 'P1' 'G1' 2 2 1* 'OIL' /
/
COMPDAT
 'P1' 2* 1 2 'OPEN' /
/
WCONPROD
 'P1' 'OPEN' 'BHP' 5* 150 /
/
`

func memDeck(t *testing.T, files map[string]string) Options {
	t.Helper()
	fs := memfs.New()
	for name, data := range files {
		if err := util.WriteFile(fs, name, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return Options{FS: fs}
}

func TestFile(t *testing.T) {
	o := memDeck(t, map[string]string{"/case/CASE.DATA": deckText, "/case/wells.inc": wellsText})
	res, err := File("/case/CASE.DATA", o)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Checksum) != 64 {
		t.Errorf("checksum = %q", res.Checksum)
	}
	if res.Static.Grid.Dims().Size() != 18 {
		t.Errorf("grid size = %d", res.Static.Grid.Dims().Size())
	}
	if res.Schedule.Size() != 2 {
		t.Fatalf("steps = %d", res.Schedule.Size())
	}
	w, err := res.Schedule.Well("P1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Status(0) != "OPEN" || w.Completions(0).Size() != 2 {
		t.Errorf("P1 status %s, %d completions", w.Status(0), w.Completions(0).Size())
	}
	files := res.Files()
	if len(files) != 2 || !strings.HasSuffix(files[1], "wells.inc") {
		t.Errorf("files = %v", files)
	}
}

func TestFileFailures(t *testing.T) {
	o := memDeck(t, map[string]string{
		"/case/BAD.DATA": strings.Replace(deckText, "'wells.inc'", "'missing.inc'", 1),
		"/case/NOGRID.DATA": "RUNSPEC\nDIMENS\n 3 3 2 /\nSCHEDULE\nTSTEP\n 1 /\n",
	})

	res, err := File("/case/BAD.DATA", o)
	if !diag.IsCode(err, string(diag.MissingInclude)) {
		t.Errorf("err = %v, want %s", err, diag.MissingInclude)
	}
	if res == nil || res.Checksum == "" || res.Deck != nil {
		t.Errorf("partial result = %+v", res)
	}

	res, err = File("/case/NOGRID.DATA", o)
	if err == nil {
		t.Fatal("expected a grid error")
	}
	if res.Deck == nil || res.Static != nil {
		t.Errorf("partial result = %+v", res)
	}

	if _, err := File("/case/NONE.DATA", o); !diag.IsCode(err, diag.CodeReadFailed) {
		t.Errorf("err = %v, want %s", err, diag.CodeReadFailed)
	}
}
