package enums

import "fmt"

// AnimalKind distinguishes the livestock types the farm tracks.
type AnimalKind string

const (
	AnimalKindCattle AnimalKind = "cattle"
	AnimalKindHorse  AnimalKind = "horse"
)

var validAnimalKinds = []AnimalKind{
	AnimalKindCattle,
	AnimalKindHorse,
}

func (k AnimalKind) String() string {
	return string(k)
}

func (k AnimalKind) IsValid() bool {
	for _, candidate := range validAnimalKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func ParseAnimalKind(value string) (AnimalKind, error) {
	for _, candidate := range validAnimalKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid animal kind %q", value)
}

// AnimalStatus tracks whether an animal is still on the farm.
type AnimalStatus string

const (
	AnimalStatusActive   AnimalStatus = "active"
	AnimalStatusSold     AnimalStatus = "sold"
	AnimalStatusDeceased AnimalStatus = "deceased"
)

var validAnimalStatuses = []AnimalStatus{
	AnimalStatusActive,
	AnimalStatusSold,
	AnimalStatusDeceased,
}

func (s AnimalStatus) String() string {
	return string(s)
}

func (s AnimalStatus) IsValid() bool {
	for _, candidate := range validAnimalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseAnimalStatus(value string) (AnimalStatus, error) {
	for _, candidate := range validAnimalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid animal status %q", value)
}
