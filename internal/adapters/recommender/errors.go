package recommender

import (
	"errors"
	"fmt"
)

// ErrServiceCall is the single failure kind of the recommendation service.
var ErrServiceCall = errors.New("recommendation service call failed")

// Fail tags err as a failed call of op. Errors already tagged pass through.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrServiceCall) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrServiceCall, err)
}
