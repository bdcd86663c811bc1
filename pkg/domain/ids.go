// Package domain holds identifier types shared across bounded contexts.
//
// Each entity gets its own named integer type so a receiver id can never be
// passed where a donor id is expected. Parse functions are the trust boundary
// for ids arriving from URLs and request bodies.
package domain

import (
	"strconv"
	"strings"

	dErrors "donorlink/pkg/domain-errors"
)

type (
	UserID        int64
	DonorID       int64
	ReceiverID    int64
	HospitalID    int64
	AssignmentID  int64
	LedgerEntryID int64
)

func (id DonorID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id ReceiverID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id HospitalID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id AssignmentID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id LedgerEntryID) String() string { return strconv.FormatInt(int64(id), 10) }

func ParseDonorID(s string) (DonorID, error) {
	v, err := parsePositive(s, "donor id")
	return DonorID(v), err
}

func ParseReceiverID(s string) (ReceiverID, error) {
	v, err := parsePositive(s, "receiver id")
	return ReceiverID(v), err
}

func ParseHospitalID(s string) (HospitalID, error) {
	v, err := parsePositive(s, "hospital id")
	return HospitalID(v), err
}

func ParseAssignmentID(s string) (AssignmentID, error) {
	v, err := parsePositive(s, "assignment id")
	return AssignmentID(v), err
}

// parsePositive accepts only canonical positive decimal integers.
func parsePositive(s, label string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if s[0] == '+' || (len(s) > 1 && s[0] == '0') {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return v, nil
}
