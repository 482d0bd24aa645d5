package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/notify"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
)

func TestCommentCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("engineer comments on an active issue", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)

		c, err := env.comments.Create(ctx, env.engineer, i.ID, "replaced the fuser unit")
		require.NoError(t, err)
		require.Equal(t, i.ID, c.IssueID)
		require.Equal(t, env.engineer.UserID, c.EngineerID)

		evs := env.events.all()
		last := evs[len(evs)-1]
		require.Equal(t, notify.KindCommentAdded, last.Kind)
		require.Equal(t, env.engineer.Email, last.ActorEmail)
	})

	t.Run("dept head may not comment", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)

		_, err := env.comments.Create(ctx, env.deptHead, i.ID, "any news?")
		require.ErrorIs(t, err, service.ErrAuthorization)
	})

	t.Run("terminal issue refuses comments with a state error", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)
		_, err := env.issues.Transition(ctx, env.deptHead, i.ID, "completed")
		require.NoError(t, err)

		_, err = env.comments.Create(ctx, env.engineer, i.ID, "too late")
		require.ErrorIs(t, err, service.ErrState)
		require.NotErrorIs(t, err, service.ErrAuthorization)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)

		_, err := env.comments.Create(ctx, env.engineer, i.ID, "")
		require.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("missing issue", func(t *testing.T) {
		env := newIssueEnv(t)
		_, err := env.comments.Create(ctx, env.engineer, "missing", "hello")
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestCommentEditDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("author edits own comment", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)
		c, err := env.comments.Create(ctx, env.engineer, i.ID, "first pass")
		require.NoError(t, err)

		got, err := env.comments.Edit(ctx, env.engineer, c.ID, "second pass")
		require.NoError(t, err)
		require.Equal(t, "second pass", got.Text)

		stored, err := env.store.Comments().GetCommentByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "second pass", stored.Text)
	})

	t.Run("another engineer may not edit or delete", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)
		c, err := env.comments.Create(ctx, env.engineer, i.ID, "first pass")
		require.NoError(t, err)

		other := mustRegister(t, env.store, "priya@vvpedulink.ac.in", "engineer")

		_, err = env.comments.Edit(ctx, other, c.ID, "hijacked")
		require.ErrorIs(t, err, service.ErrNotAuthor)
		require.ErrorIs(t, env.comments.Delete(ctx, other, c.ID), service.ErrNotAuthor)
	})

	t.Run("closing the issue freezes its comments", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)
		c, err := env.comments.Create(ctx, env.engineer, i.ID, "first pass")
		require.NoError(t, err)

		_, err = env.issues.Transition(ctx, env.deptHead, i.ID, "completed")
		require.NoError(t, err)

		_, err = env.comments.Edit(ctx, env.engineer, c.ID, "revision")
		require.ErrorIs(t, err, service.ErrState)
		require.ErrorIs(t, env.comments.Delete(ctx, env.engineer, c.ID), service.ErrState)
	})

	t.Run("delete removes the comment", func(t *testing.T) {
		env := newIssueEnv(t)
		i := env.createIssue(t)
		c, err := env.comments.Create(ctx, env.engineer, i.ID, "noise")
		require.NoError(t, err)

		require.NoError(t, env.comments.Delete(ctx, env.engineer, c.ID))

		list, err := env.comments.ListForIssue(ctx, i.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("missing comment", func(t *testing.T) {
		env := newIssueEnv(t)
		_, err := env.comments.Edit(ctx, env.engineer, "missing", "x")
		require.ErrorIs(t, err, service.ErrNotFound)
		require.ErrorIs(t, env.comments.Delete(ctx, env.engineer, "missing"), service.ErrNotFound)
	})
}

// TestComplaintWorkflow walks one complaint through its whole life.
func TestComplaintWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newIssueEnv(t)

	i, err := env.issues.Create(ctx, env.deptHead, "Printer", "jam")
	require.NoError(t, err)
	require.Equal(t, "open", i.Status.String())

	_, err = env.comments.Create(ctx, env.engineer, i.ID, "cleared the feed rollers")
	require.NoError(t, err)

	_, err = env.issues.Transition(ctx, env.engineer, i.ID, "resolved")
	require.NoError(t, err)

	i, err = env.issues.Transition(ctx, env.deptHead, i.ID, "completed")
	require.NoError(t, err)
	require.True(t, i.Status.Terminal())

	_, err = env.comments.Create(ctx, env.engineer, i.ID, "one more thing")
	require.ErrorIs(t, err, service.ErrState)

	// Issue stays on the engineer's dashboard because they commented.
	list, err := env.issues.ListForEngineer(ctx, env.engineer, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, i.ID, list[0].ID)

	kinds := make([]notify.Kind, 0)
	for _, ev := range env.events.all() {
		kinds = append(kinds, ev.Kind)
	}
	require.Equal(t, []notify.Kind{
		notify.KindIssueCreated,
		notify.KindCommentAdded,
		notify.KindIssueTransitioned,
		notify.KindIssueTransitioned,
	}, kinds)
}
