// internal/models/structure.go
package models

// StructureType is the kind of structure the owner wants to build.
type StructureType string

const (
	StructureShed       StructureType = "shed"
	StructurePatio      StructureType = "patio"
	StructureCarport    StructureType = "carport"
	StructureGrannyFlat StructureType = "granny_flat"
)

var structureLabels = map[StructureType]string{
	StructureShed:       "Shed",
	StructurePatio:      "Patio",
	StructureCarport:    "Carport",
	StructureGrannyFlat: "Granny Flat",
}

// StructureTypes lists the selectable values in display order.
func StructureTypes() []StructureType {
	return []StructureType{StructureShed, StructurePatio, StructureCarport, StructureGrannyFlat}
}

// Label returns the display label, or the raw value for unknown types.
func (s StructureType) Label() string {
	if label, ok := structureLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the selectable values.
func (s StructureType) Valid() bool {
	_, ok := structureLabels[s]
	return ok
}

func (s StructureType) String() string {
	return string(s)
}
