package kernel_test

import (
	"encoding/json"
	"testing"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid unique UUID", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id1.String())
		assert.False(t, id1.IsEqual(id2))
	})
}

func TestUUIDFromString(t *testing.T) {
	validUUID := "550e8400-e29b-41d4-a716-446655440000"

	t.Run("should parse canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString(validUUID)

		require.NoError(t, err)
		assert.Equal(t, validUUID, id.String())
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, input := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716"} {
			_, err := kernel.UUIDFromString(input)
			require.Error(t, err, input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip through bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should reject invalid length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})

		require.Error(t, err)
	})

	t.Run("should reject all-zero bytes", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var id kernel.UUID

		require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Text(t *testing.T) {
	t.Run("should marshal as canonical string inside JSON", func(t *testing.T) {
		id, _ := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
		payload := struct {
			ID kernel.UUID `json:"id"`
		}{ID: id}

		data, err := json.Marshal(payload)

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"550e8400-e29b-41d4-a716-446655440000"}`, string(data))
	})

	t.Run("should unmarshal back to an equal UUID", func(t *testing.T) {
		original := kernel.NewUUID()
		text, err := original.MarshalText()
		require.NoError(t, err)

		var restored kernel.UUID
		require.NoError(t, restored.UnmarshalText(text))

		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should leave zero value on empty text", func(t *testing.T) {
		restored := kernel.NewUUID()

		require.NoError(t, restored.UnmarshalText(nil))
		require.Error(t, restored.Validate())
	})

	t.Run("should reject garbage", func(t *testing.T) {
		var restored kernel.UUID

		require.Error(t, restored.UnmarshalText([]byte("garbage")))
	})
}

func TestDeriveUUID(t *testing.T) {
	namespace := kernel.NewUUID()

	first := kernel.DeriveUUID(namespace, "fine/3")
	second := kernel.DeriveUUID(namespace, "fine/3")
	other := kernel.DeriveUUID(namespace, "fine/4")

	assert.True(t, first.IsEqual(second))
	assert.False(t, first.IsEqual(other))
	assert.NoError(t, first.Validate())
}
