package fossil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCommand struct {
	dir  string
	name string
	args []string
}

// fakeRunner returns canned output keyed by the first argument.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []recordedCommand
}

func (f *fakeRunner) run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, recordedCommand{dir: dir, name: name, args: args})
	if err := f.errs[args[0]]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[args[0]]), nil
}

func TestNewClient_Defaults(t *testing.T) {
	runner := &fakeRunner{}
	c := NewClient(ClientOptions{Runner: runner.run})

	_, err := c.TimelineBefore(context.Background(), NewRevisionState("abc"))
	require.NoError(t, err)

	assert.Equal(t, "fossil", c.Executable())
	require.Len(t, runner.calls, 1)
	assert.Equal(t, recordedCommand{
		dir:  ".",
		name: "fossil",
		args: []string{"timeline", "before", "abc", "-n", "2000000", "-t", "ci"},
	}, runner.calls[0])
}

func TestClient_TimelineBeforeWithRepository(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"timeline": olderTimeline}}
	c := NewClient(ClientOptions{
		Executable:    "/opt/bin/fossil",
		Workdir:       "/work",
		Repository:    "/repos/project.fossil",
		TimelineLimit: 50,
		Runner:        runner.run,
	})

	out, err := c.TimelineBefore(context.Background(), NewRevisionState("abc"))
	require.NoError(t, err)
	assert.Equal(t, olderTimeline, string(out))

	assert.Equal(t, recordedCommand{
		dir:  "/work",
		name: "/opt/bin/fossil",
		args: []string{"timeline", "before", "abc", "-n", "50", "-t", "ci", "-R", "/repos/project.fossil"},
	}, runner.calls[0])
}

func TestClient_TimelineBeforeErrors(t *testing.T) {
	boom := errors.New("exit status 1")
	runner := &fakeRunner{errs: map[string]error{"timeline": boom}}
	c := NewClient(ClientOptions{Runner: runner.run})

	_, err := c.TimelineBefore(context.Background(), NewRevisionState("abc"))
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "abc", fe.Revision.ID())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrExternalFetch)

	_, err = c.TimelineBefore(context.Background(), RevisionState{})
	require.ErrorIs(t, err, ErrExternalFetch)
	assert.Len(t, runner.calls, 1, "empty revision must not run fossil")
}

func TestClient_CurrentRevision(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"info": goodInfo}}
	c := NewClient(ClientOptions{Runner: runner.run})

	rev, err := c.CurrentRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "886b406bcf4276879cc9d1c9869772991aeaf21e", rev.ID())
	assert.Equal(t, []string{"info"}, runner.calls[0].args)
}

func TestClient_CurrentRevisionNoCheckout(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"info": "not within an open checkout\n"}}
	c := NewClient(ClientOptions{Runner: runner.run})

	_, err := c.CurrentRevision(context.Background())
	assert.ErrorIs(t, err, ErrNoCheckout)
}

func TestClient_Version(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"version": "This is fossil version 1.22 [5dd5d39e7c] 2012-03-19 12:45:47 UTC\n",
	}}
	c := NewClient(ClientOptions{Runner: runner.run})

	info, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ClientInfo{Version: "1.22", Checkin: "5dd5d39e7c", Date: "2012-03-19 12:45:47 UTC"}, info)

	runner.errs = map[string]error{"version": errors.New("not found")}
	_, err = c.Version(context.Background())
	assert.Error(t, err)
}
