package enums

import "fmt"

// ProtocolStatus tracks the lifecycle of a reproduction protocol.
type ProtocolStatus string

const (
	ProtocolStatusScheduled  ProtocolStatus = "scheduled"
	ProtocolStatusInProgress ProtocolStatus = "in_progress"
	ProtocolStatusCompleted  ProtocolStatus = "completed"
	ProtocolStatusCancelled  ProtocolStatus = "cancelled"
)

var validProtocolStatuses = []ProtocolStatus{
	ProtocolStatusScheduled,
	ProtocolStatusInProgress,
	ProtocolStatusCompleted,
	ProtocolStatusCancelled,
}

func (s ProtocolStatus) String() string {
	return string(s)
}

func (s ProtocolStatus) IsValid() bool {
	for _, candidate := range validProtocolStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseProtocolStatus(value string) (ProtocolStatus, error) {
	for _, candidate := range validProtocolStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid protocol status %q", value)
}

// UltrasoundResult is the recorded outcome of an ultrasound exam.
type UltrasoundResult string

const (
	UltrasoundResultPregnant     UltrasoundResult = "pregnant"
	UltrasoundResultEmpty        UltrasoundResult = "empty"
	UltrasoundResultInconclusive UltrasoundResult = "inconclusive"
)

var validUltrasoundResults = []UltrasoundResult{
	UltrasoundResultPregnant,
	UltrasoundResultEmpty,
	UltrasoundResultInconclusive,
}

func (r UltrasoundResult) String() string {
	return string(r)
}

func (r UltrasoundResult) IsValid() bool {
	for _, candidate := range validUltrasoundResults {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseUltrasoundResult(value string) (UltrasoundResult, error) {
	for _, candidate := range validUltrasoundResults {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ultrasound result %q", value)
}
