package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompatible_Directional(t *testing.T) {
	t.Run("O- donates to every type", func(t *testing.T) {
		for _, receiver := range AllBloodTypes {
			assert.True(t, IsCompatible(BloodTypeONeg, receiver), "O- -> %s", receiver)
		}
	})

	t.Run("AB+ receives from every type", func(t *testing.T) {
		for _, donor := range AllBloodTypes {
			assert.True(t, IsCompatible(donor, BloodTypeABPos), "%s -> AB+", donor)
		}
	})

	t.Run("same type is always compatible", func(t *testing.T) {
		for _, bt := range AllBloodTypes {
			assert.True(t, IsCompatible(bt, bt), "%s -> %s", bt, bt)
		}
	})

	t.Run("table is not symmetric", func(t *testing.T) {
		assert.False(t, IsCompatible(BloodTypeAPos, BloodTypeBPos))
		assert.True(t, IsCompatible(BloodTypeONeg, BloodTypeABPos))
		assert.False(t, IsCompatible(BloodTypeABPos, BloodTypeONeg))
		assert.True(t, IsCompatible(BloodTypeANeg, BloodTypeAPos))
		assert.False(t, IsCompatible(BloodTypeAPos, BloodTypeANeg))
	})
}

func TestIsCompatible_FullMatrix(t *testing.T) {
	expected := map[BloodType][]BloodType{
		BloodTypeONeg:  AllBloodTypes,
		BloodTypeOPos:  {BloodTypeOPos, BloodTypeAPos, BloodTypeBPos, BloodTypeABPos},
		BloodTypeANeg:  {BloodTypeANeg, BloodTypeAPos, BloodTypeABNeg, BloodTypeABPos},
		BloodTypeAPos:  {BloodTypeAPos, BloodTypeABPos},
		BloodTypeBNeg:  {BloodTypeBNeg, BloodTypeBPos, BloodTypeABNeg, BloodTypeABPos},
		BloodTypeBPos:  {BloodTypeBPos, BloodTypeABPos},
		BloodTypeABNeg: {BloodTypeABNeg, BloodTypeABPos},
		BloodTypeABPos: {BloodTypeABPos},
	}
	for donor, receivers := range expected {
		for _, receiver := range AllBloodTypes {
			want := contains(receivers, receiver)
			assert.Equal(t, want, IsCompatible(donor, receiver), "%s -> %s", donor, receiver)
		}
	}
}

func TestIsCompatible_UnknownTypes(t *testing.T) {
	assert.False(t, IsCompatible("C+", BloodTypeABPos))
	assert.False(t, IsCompatible(BloodTypeONeg, "ZZ"))
	assert.False(t, IsCompatible("", ""))
	assert.False(t, IsCompatible("o-", BloodTypeAPos), "matching is case sensitive; normalize with ParseBloodType")
}

func TestParseBloodType(t *testing.T) {
	bt, ok := ParseBloodType(" ab- ")
	assert.True(t, ok)
	assert.Equal(t, BloodTypeABNeg, bt)

	_, ok = ParseBloodType("AB")
	assert.False(t, ok)
}

func TestCompatibleDonorTypes(t *testing.T) {
	assert.ElementsMatch(t, AllBloodTypes, CompatibleDonorTypes(BloodTypeABPos))
	assert.Equal(t, []BloodType{BloodTypeONeg}, CompatibleDonorTypes(BloodTypeONeg))
	assert.ElementsMatch(t,
		[]BloodType{BloodTypeAPos, BloodTypeANeg, BloodTypeOPos, BloodTypeONeg},
		CompatibleDonorTypes(BloodTypeAPos))
	assert.Empty(t, CompatibleDonorTypes("X"))
}

func contains(types []BloodType, target BloodType) bool {
	for _, bt := range types {
		if bt == target {
			return true
		}
	}
	return false
}
