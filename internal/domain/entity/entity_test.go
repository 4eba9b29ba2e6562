package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := NewUser("gm_dave", "dave@example.com")
	require.NoError(t, u.SetPassword("s3cret-pass"))

	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("gm_dave", "dave@example.com")
	assert.Equal(t, UserRoleMember, u.Role)
	assert.False(t, u.IsAdmin())

	u.Role = UserRoleAdmin
	assert.True(t, u.IsAdmin())
}

func TestConversationAppendAndWindow(t *testing.T) {
	c := NewConversation("char-1", "user-1")
	for i := 0; i < 12; i++ {
		c.Append(SpeakerUser, "msg")
	}

	assert.Len(t, c.Messages, 12)
	assert.Len(t, c.Window(10), 10)
	assert.Len(t, c.Window(0), 12)
	assert.Len(t, c.Window(50), 12)

	// 窗口取最近的消息
	c.Append(SpeakerCharacter, "latest")
	w := c.Window(3)
	assert.Equal(t, "latest", w[len(w)-1].Text)
}

func TestNewSectionDefaultsType(t *testing.T) {
	s := NewSection("camp-1", "The Vale", "", 2, "")
	assert.Equal(t, SectionTypeGeneric, s.Type)
	assert.Equal(t, 2, s.SortOrder)

	s = NewSection("camp-1", "The Vale", "text", 0, SectionTypeLocation)
	assert.Equal(t, SectionTypeLocation, s.Type)
}
