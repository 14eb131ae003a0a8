package featurize

// DefaultDescriptors returns the descriptor list used by the featurize command:
// stoichiometry and element statistics on the composition, density and radial
// distribution on the structure.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{Name: "stoichiometry", Level: CompositionLevel, Featurizer: NewStoichiometry()},
		{Name: "element_property", Level: CompositionLevel, Featurizer: NewElementProperty()},
		{Name: "density", Level: StructureLevel, Featurizer: DensityFeatures{}},
		{Name: "rdf", Level: StructureLevel, Featurizer: NewRadialDistribution()},
	}
}
