package mirror_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtodo/internal/mirror"
	"gtodo/internal/task"
	"gtodo/internal/testutil"
)

func local(t *testing.T, text string, completed bool) task.Task {
	t.Helper()
	tk, err := task.New(task.NewID(), text, time.Now())
	require.NoError(t, err)
	tk.Completed = completed
	return tk
}

func openTitles(r *testutil.FakeRemote, listID string) []string {
	var out []string
	for _, rt := range r.Tasks(listID) {
		if rt.Status == "needsAction" {
			out = append(out, rt.Title)
		}
	}
	return out
}

func TestPushCreatesMissingActiveTasks(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.AddTask(testutil.DefaultListID, "r1", "Buy milk")

	rep, err := mirror.Push(context.Background(), remote, "", []task.Task{
		local(t, "Walk dog", false),
		local(t, "buy milk ", false),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Created)
	assert.Equal(t, 1, rep.Unchanged)
	assert.Equal(t, "My Tasks", rep.List.Title)
	assert.ElementsMatch(t, []string{"Buy milk", "Walk dog"}, openTitles(remote, testutil.DefaultListID))
}

func TestPushCompletesRemoteCounterparts(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.AddTask(testutil.DefaultListID, "r1", "Buy milk")
	remote.AddTask(testutil.DefaultListID, "r2", "Buy milk")

	// One active and one completed "Buy milk": exactly one remote copy closes.
	rep, err := mirror.Push(context.Background(), remote, "", []task.Task{
		local(t, "Buy milk", true),
		local(t, "Buy milk", false),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Created)
	assert.Equal(t, 1, rep.Completed)
	assert.Equal(t, []string{"Buy milk"}, openTitles(remote, testutil.DefaultListID))
}

func TestPushCompletedWithoutCounterpartIsUnchanged(t *testing.T) {
	remote := testutil.NewFakeRemote()

	rep, err := mirror.Push(context.Background(), remote, "", []task.Task{local(t, "Old", true)})
	require.NoError(t, err)

	assert.Equal(t, mirror.Report{List: rep.List, Unchanged: 1}, rep)
	assert.Empty(t, remote.Tasks(testutil.DefaultListID))
}

func TestPushNamedList(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.AddList("work", "Work")

	rep, err := mirror.Push(context.Background(), remote, " work ", []task.Task{local(t, "Report", false)})
	require.NoError(t, err)

	assert.Equal(t, "work", rep.List.ID)
	assert.Equal(t, []string{"Report"}, openTitles(remote, "work"))
	assert.Empty(t, remote.Tasks(testutil.DefaultListID))
}

func TestPushUnknownList(t *testing.T) {
	remote := testutil.NewFakeRemote()

	_, err := mirror.Push(context.Background(), remote, "Nope", nil)
	assert.ErrorIs(t, err, mirror.ErrNotFound)
	var listErr *mirror.ListError
	require.ErrorAs(t, err, &listErr)
	assert.Equal(t, "Nope", listErr.Name)
}

func TestPushCreateFailureIsNotAListError(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.CreateTaskErr = mirror.ErrNotFound

	_, err := mirror.Push(context.Background(), remote, "", []task.Task{local(t, "list not found", false)})
	require.Error(t, err)
	var listErr *mirror.ListError
	assert.False(t, errors.As(err, &listErr))
}

func TestPushScansEveryPage(t *testing.T) {
	remote := testutil.NewFakeRemote()
	var tasks []task.Task
	for i := range mirror.PageSize + 5 {
		title := fmt.Sprintf("task %d", i)
		remote.AddTask(testutil.DefaultListID, fmt.Sprintf("r%d", i), title)
		tasks = append(tasks, local(t, title, false))
	}

	rep, err := mirror.Push(context.Background(), remote, "", tasks)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Created)
	assert.Equal(t, mirror.PageSize+5, rep.Unchanged)
}

func TestPushErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("list", func(t *testing.T) {
		remote := testutil.NewFakeRemote()
		remote.ListOpenTasksErr[testutil.DefaultListID] = boom
		_, err := mirror.Push(context.Background(), remote, "", nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("create", func(t *testing.T) {
		remote := testutil.NewFakeRemote()
		remote.CreateTaskErr = boom
		rep, err := mirror.Push(context.Background(), remote, "", []task.Task{local(t, "x", false)})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, rep.Created)
	})

	t.Run("complete", func(t *testing.T) {
		remote := testutil.NewFakeRemote()
		remote.AddTask(testutil.DefaultListID, "r1", "x")
		remote.CompleteTaskErr = boom
		_, err := mirror.Push(context.Background(), remote, "", []task.Task{local(t, "x", true)})
		assert.ErrorIs(t, err, boom)
	})
}

func TestReportString(t *testing.T) {
	rep := mirror.Report{List: mirror.TaskList{Title: "My Tasks"}, Created: 2, Completed: 1}
	assert.Equal(t, `"My Tasks": 2 created, 1 completed, 0 unchanged`, rep.String())
}
