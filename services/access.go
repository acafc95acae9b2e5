package services

import (
	"errors"
	"fmt"

	"github.com/struffoli/facecard/pkg"
)

// checkBodyUser rejects a request body whose user_id names someone other
// than the requester. An empty user_id means the requester.
func checkBodyUser(requesterID, bodyUserID string) error {
	if bodyUserID != "" && bodyUserID != requesterID {
		return fmt.Errorf("%w: unauthorized user", pkg.ErrForbidden)
	}
	return nil
}

func requireOwner(requesterID, ownerID, what string) error {
	if requesterID != ownerID {
		return fmt.Errorf("%w: you do not own this %s", pkg.ErrForbidden, what)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, pkg.ErrNotFound)
}
