package user

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/taggate/internal/domain"
)

func userToHash(u domain.User) map[string]string {
	return map[string]string{
		"id":     u.ID(),
		"active": strconv.FormatBool(u.Active()),
	}
}

func userFromHash(apiKey string, m map[string]string) (domain.User, error) {
	id := m["id"]
	if id == "" {
		return domain.User{}, fmt.Errorf("missing id: %w", domain.ErrInvalidUser)
	}
	active, err := strconv.ParseBool(m["active"])
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid active %q: %w", m["active"], err)
	}
	return domain.ReconstructUser(id, apiKey, active), nil
}
