package enums

// WeightUnit is the unit tag attached to variant weights by the catalog
// platform. Unknown tags are deliberately representable: conversion treats
// them as pass-through rather than rejecting the variant.
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "KILOGRAMS"
	WeightUnitGrams     WeightUnit = "GRAMS"
	WeightUnitPounds    WeightUnit = "POUNDS"
	WeightUnitOunces    WeightUnit = "OUNCES"
)

func (u WeightUnit) String() string {
	return string(u)
}
