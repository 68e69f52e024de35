package logic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "alice")
	f.addUser(t, "mallory")
	convo := f.addConversation(t, owner, "chat")
	ctx := context.Background()

	user, got, err := f.convos.Authorize(ctx, convo.ID, "alice")
	require.NoError(t, err)
	require.Equal(t, owner.ID, user.ID)
	require.Equal(t, convo.ID, got.ID)

	_, _, err = f.convos.Authorize(ctx, convo.ID, "mallory")
	require.Equal(t, "permission_denied", apperr.CodeOf(err))

	_, _, err = f.convos.Authorize(ctx, uuid.New(), "alice")
	require.Equal(t, "not_found", apperr.CodeOf(err))

	_, _, err = f.convos.Authorize(ctx, convo.ID, "ghost")
	require.Equal(t, "not_found", apperr.CodeOf(err))
}

func TestGetConversationsMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")
	ctx := context.Background()

	first := f.addConversation(t, user, "first")
	second := f.addConversation(t, user, "second")

	// appending a message moves the older one back to the top
	_, err := f.msgDAO.AppendMessage(ctx, &models.Message{
		ConversationID: first.ID,
		Role:           models.RoleUser,
		Content:        "bump",
	})
	require.NoError(t, err)

	list, err := f.convos.GetConversations(ctx, "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
}

func TestGetConversationsScopedToUser(t *testing.T) {
	f := newFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.addConversation(t, alice, "hers")
	f.addConversation(t, bob, "his")

	list, err := f.convos.GetConversations(context.Background(), "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "hers", list[0].Title)
}

func TestRenameConversation(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")
	f.addUser(t, "mallory")
	convo := f.addConversation(t, user, "old name")
	ctx := context.Background()

	renamed, err := f.convos.RenameConversation(ctx, convo.ID, "alice", "new name")
	require.NoError(t, err)
	require.Equal(t, "new name", renamed.Title)

	_, err = f.convos.RenameConversation(ctx, convo.ID, "alice", "")
	require.Equal(t, "invalid_argument", apperr.CodeOf(err))

	_, err = f.convos.RenameConversation(ctx, convo.ID, "mallory", "stolen")
	require.Equal(t, "permission_denied", apperr.CodeOf(err))
}

func TestDeleteConversationReleasesAttachments(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")
	convo := f.addConversation(t, user, "chat")
	keep := f.addConversation(t, user, "keep")
	ctx := context.Background()

	_, err := f.msgDAO.CreateMessage(ctx, &models.Message{
		ConversationID: convo.ID,
		Role:           models.RoleUser,
		Content:        "with photos",
		PhotoURLs:      []string{"http://files.test/a.png", "http://files.test/b.png"},
	})
	require.NoError(t, err)
	_, err = f.msgDAO.CreateMessage(ctx, &models.Message{
		ConversationID: keep.ID,
		Role:           models.RoleUser,
		Content:        "untouched",
	})
	require.NoError(t, err)

	require.NoError(t, f.convos.DeleteConversation(ctx, convo.ID, "alice"))
	require.ElementsMatch(t, []string{"http://files.test/a.png", "http://files.test/b.png"}, f.store.deletes)

	_, _, err = f.convos.Authorize(ctx, convo.ID, "alice")
	require.Equal(t, "not_found", apperr.CodeOf(err))

	count, err := f.msgDAO.CountMessages(ctx, keep.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
