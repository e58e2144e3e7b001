package schedule

import (
	"strings"

	"github.com/rcliao/simdeck/internal/diag"
)

// Status is the operating status of a well or a completion.
type Status string

const (
	Open Status = "OPEN"
	Shut Status = "SHUT"
	Stop Status = "STOP"
	Auto Status = "AUTO"
)

var validStatus = map[Status]bool{Open: true, Shut: true, Stop: true, Auto: true}

// ParseStatus reads a well status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(s))
	if !validStatus[st] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown status %q", s)
	}
	return st, nil
}

// completionStatus maps a status onto the states a completion can take.
// A stopped completion is shut.
func completionStatus(s Status) Status {
	if s == Stop {
		return Shut
	}
	return s
}

// Phase is the preferred phase of a well.
type Phase string

const (
	PhaseOil    Phase = "OIL"
	PhaseWater  Phase = "WATER"
	PhaseGas    Phase = "GAS"
	PhaseLiquid Phase = "LIQ"
)

var validPhase = map[Phase]bool{PhaseOil: true, PhaseWater: true, PhaseGas: true, PhaseLiquid: true}

func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToUpper(s))
	if !validPhase[p] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown phase %q", s)
	}
	return p, nil
}

// Direction is the penetration direction of a completion.
type Direction string

const (
	DirX Direction = "X"
	DirY Direction = "Y"
	DirZ Direction = "Z"
)

func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(s))
	switch d {
	case DirX, DirY, DirZ:
		return d, nil
	}
	return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown direction %q", s)
}

// InjectorType is the phase injected by a well.
type InjectorType string

const (
	InjectWater InjectorType = "WATER"
	InjectGas   InjectorType = "GAS"
	InjectOil   InjectorType = "OIL"
	InjectMulti InjectorType = "MULTI"
)

var validInjector = map[InjectorType]bool{InjectWater: true, InjectGas: true, InjectOil: true, InjectMulti: true}

func ParseInjectorType(s string) (InjectorType, error) {
	t := InjectorType(strings.ToUpper(s))
	if !validInjector[t] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown injector type %q", s)
	}
	return t, nil
}

// rateDimension is the dimension of a surface rate of the injected phase.
func (t InjectorType) rateDimension() (string, error) {
	switch t {
	case InjectWater, InjectOil:
		return "LiquidSurfaceVolume/Time", nil
	case InjectGas:
		return "GasSurfaceVolume/Time", nil
	}
	return "", diag.Format(diag.Semantic, diag.CodeUnsupported,
		"surface rates of %s injectors cannot be converted", t)
}

// ProducerCMode is the control mode of a producer.
type ProducerCMode string

const (
	ProdORAT ProducerCMode = "ORAT"
	ProdWRAT ProducerCMode = "WRAT"
	ProdGRAT ProducerCMode = "GRAT"
	ProdLRAT ProducerCMode = "LRAT"
	ProdCRAT ProducerCMode = "CRAT"
	ProdRESV ProducerCMode = "RESV"
	ProdBHP  ProducerCMode = "BHP"
	ProdTHP  ProducerCMode = "THP"
	ProdGRUP ProducerCMode = "GRUP"
	ProdNone ProducerCMode = "NONE"
)

var validProducerCMode = map[ProducerCMode]bool{
	ProdORAT: true, ProdWRAT: true, ProdGRAT: true, ProdLRAT: true, ProdCRAT: true,
	ProdRESV: true, ProdBHP: true, ProdTHP: true, ProdGRUP: true, ProdNone: true,
}

func ParseProducerCMode(s string) (ProducerCMode, error) {
	m := ProducerCMode(strings.ToUpper(s))
	if !validProducerCMode[m] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown producer control mode %q", s)
	}
	return m, nil
}

// InjectorCMode is the control mode of an injector.
type InjectorCMode string

const (
	InjRATE InjectorCMode = "RATE"
	InjRESV InjectorCMode = "RESV"
	InjBHP  InjectorCMode = "BHP"
	InjTHP  InjectorCMode = "THP"
	InjGRUP InjectorCMode = "GRUP"
)

var validInjectorCMode = map[InjectorCMode]bool{InjRATE: true, InjRESV: true, InjBHP: true, InjTHP: true, InjGRUP: true}

func ParseInjectorCMode(s string) (InjectorCMode, error) {
	m := InjectorCMode(strings.ToUpper(s))
	if !validInjectorCMode[m] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown injector control mode %q", s)
	}
	return m, nil
}

// TargetMode names the control target changed by WELTARG.
type TargetMode string

// targetDimensions holds the valid WELTARG modes with the dimension of their
// value. An empty dimension is a plain number.
var targetDimensions = map[TargetMode]string{
	"ORAT": "LiquidSurfaceVolume/Time",
	"WRAT": "LiquidSurfaceVolume/Time",
	"LRAT": "LiquidSurfaceVolume/Time",
	"CRAT": "LiquidSurfaceVolume/Time",
	"GRAT": "GasSurfaceVolume/Time",
	"RESV": "ReservoirVolume/Time",
	"BHP":  "Pressure",
	"THP":  "Pressure",
	"VFP":  "",
	"LIFT": "",
	"GUID": "",
}

func ParseTargetMode(s string) (TargetMode, error) {
	m := TargetMode(strings.ToUpper(s))
	if _, ok := targetDimensions[m]; !ok {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown control mode %q", s)
	}
	return m, nil
}

// GroupProdCMode is the production control mode of a group.
type GroupProdCMode string

var validGroupProd = map[GroupProdCMode]bool{
	"NONE": true, "ORAT": true, "WRAT": true, "GRAT": true, "LRAT": true,
	"CRAT": true, "RESV": true, "PRBL": true, "FLD": true,
}

func ParseGroupProdCMode(s string) (GroupProdCMode, error) {
	m := GroupProdCMode(strings.ToUpper(s))
	if !validGroupProd[m] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown group production mode %q", s)
	}
	return m, nil
}

// GroupInjCMode is the injection control mode of a group.
type GroupInjCMode string

var validGroupInj = map[GroupInjCMode]bool{
	"NONE": true, "RATE": true, "RESV": true, "REIN": true, "VREP": true, "FLD": true,
}

func ParseGroupInjCMode(s string) (GroupInjCMode, error) {
	m := GroupInjCMode(strings.ToUpper(s))
	if !validGroupInj[m] {
		return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown group injection mode %q", s)
	}
	return m, nil
}

// CompletionOrder is the ordering of a well's completions set by COMPORD.
type CompletionOrder string

const (
	OrderTrack CompletionOrder = "TRACK"
	OrderInput CompletionOrder = "INPUT"
	OrderDepth CompletionOrder = "DEPTH"
)

func ParseCompletionOrder(s string) (CompletionOrder, error) {
	o := CompletionOrder(strings.ToUpper(s))
	switch o {
	case OrderTrack, OrderInput, OrderDepth:
		return o, nil
	}
	return "", diag.Format(diag.Semantic, diag.CodeInvalidValue, "unknown completion order %q", s)
}
