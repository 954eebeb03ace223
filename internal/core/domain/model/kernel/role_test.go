package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("should accept external roles", func(t *testing.T) {
		admin, err := kernel.ParseRole("admin")
		require.NoError(t, err)
		assert.Equal(t, kernel.RoleAdmin, admin)

		writer, err := kernel.ParseRole("writer")
		require.NoError(t, err)
		assert.Equal(t, kernel.RoleWriter, writer)
	})

	t.Run("should refuse the system role from outside", func(t *testing.T) {
		_, err := kernel.ParseRole("system")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse unknown tags", func(t *testing.T) {
		_, err := kernel.ParseRole("client")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), `"client" is not an external role`)
	})
}

func TestRole_Validate(t *testing.T) {
	for _, r := range []kernel.Role{kernel.RoleAdmin, kernel.RoleWriter, kernel.RoleSystem} {
		require.NoError(t, r.Validate(), r.String())
	}
	require.Error(t, kernel.Role("").Validate())
}
