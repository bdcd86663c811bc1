package models

import "strings"

// BloodType is one of the eight ABO/Rh groups.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// AllBloodTypes lists every valid blood type in a stable order.
var AllBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

// compatibleRecipients is the directed donor -> receivers table.
// It is deliberately not symmetric: O- gives to everyone, AB+ receives from everyone.
var compatibleRecipients = map[BloodType][]BloodType{
	BloodTypeAPos:  {BloodTypeAPos, BloodTypeABPos},
	BloodTypeANeg:  {BloodTypeAPos, BloodTypeANeg, BloodTypeABPos, BloodTypeABNeg},
	BloodTypeBPos:  {BloodTypeBPos, BloodTypeABPos},
	BloodTypeBNeg:  {BloodTypeBPos, BloodTypeBNeg, BloodTypeABPos, BloodTypeABNeg},
	BloodTypeABPos: {BloodTypeABPos},
	BloodTypeABNeg: {BloodTypeABPos, BloodTypeABNeg},
	BloodTypeOPos:  {BloodTypeAPos, BloodTypeBPos, BloodTypeABPos, BloodTypeOPos},
	BloodTypeONeg:  {BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg, BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg},
}

// ParseBloodType normalizes input such as " ab+ " and reports whether it is valid.
func ParseBloodType(s string) (BloodType, bool) {
	bt := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	return bt, bt.IsValid()
}

func (b BloodType) IsValid() bool {
	_, ok := compatibleRecipients[b]
	return ok
}

func (b BloodType) String() string {
	return string(b)
}

// IsCompatible reports whether blood of donorType can be given to receiverType.
// Unknown or malformed types are never compatible.
func IsCompatible(donorType, receiverType BloodType) bool {
	if !receiverType.IsValid() {
		return false
	}
	for _, recipient := range compatibleRecipients[donorType] {
		if recipient == receiverType {
			return true
		}
	}
	return false
}

// CompatibleDonorTypes returns every donor type that can give to receiverType.
func CompatibleDonorTypes(receiverType BloodType) []BloodType {
	var donors []BloodType
	for _, donorType := range AllBloodTypes {
		if IsCompatible(donorType, receiverType) {
			donors = append(donors, donorType)
		}
	}
	return donors
}
