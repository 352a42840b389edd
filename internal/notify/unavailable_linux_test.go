package notify

import "errors"

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
