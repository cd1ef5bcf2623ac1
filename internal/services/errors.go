package services

import "fmt"

type unknownFacilityError struct {
	externalID int64
}

func (e *unknownFacilityError) Error() string {
	return fmt.Sprintf("no mirrored building with external id %d", e.externalID)
}

func errUnknownFacility(externalID int64) error {
	return &unknownFacilityError{externalID: externalID}
}
