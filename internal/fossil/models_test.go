package fossil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeLog_Reindexes(t *testing.T) {
	entries := []ChangeEntry{
		{CommitID: "aaaaaaaaaa", AffectedFiles: []AffectedFile{{Path: "x", EntryIndex: 7}}},
		{CommitID: "bbbbbbbbbb", AffectedFiles: []AffectedFile{{Path: "y", EntryIndex: 7}, {Path: "z", EntryIndex: 3}}},
	}

	log := NewChangeLog(entries)
	require.Equal(t, 2, log.Len())
	assert.Equal(t, 0, log.Entry(0).AffectedFiles[0].EntryIndex)
	for _, af := range log.Entry(1).AffectedFiles {
		assert.Equal(t, 1, af.EntryIndex)
	}
	assert.Equal(t, []string{"aaaaaaaaaa", "bbbbbbbbbb"}, log.CommitIDs())
	assert.Equal(t, []string{"x", "y", "z"}, log.AffectedPaths())

	owner, ok := log.EntryOf(log.Entry(1).AffectedFiles[1])
	require.True(t, ok)
	assert.Equal(t, "bbbbbbbbbb", owner.CommitID)

	_, ok = log.EntryOf(AffectedFile{EntryIndex: 5})
	assert.False(t, ok)
}

func TestChangeLog_Immutable(t *testing.T) {
	entries := []ChangeEntry{{CommitID: "aaaaaaaaaa", Tags: []string{"trunk"}, AffectedFiles: []AffectedFile{{Path: "x"}}}}
	log := NewChangeLog(entries)

	entries[0].CommitID = "changed"
	entries[0].Tags[0] = "changed"

	got := log.Entries()
	got[0].AffectedFiles[0].Path = "changed"
	got[0].Message = "changed"

	e := log.Entry(0)
	assert.Equal(t, "aaaaaaaaaa", e.CommitID)
	assert.Equal(t, []string{"trunk"}, e.Tags)
	assert.Equal(t, "x", e.AffectedFiles[0].Path)
	assert.Empty(t, e.Message)
}

func TestChangeLog_Nil(t *testing.T) {
	var log *ChangeLog
	assert.Equal(t, 0, log.Len())
	assert.True(t, log.IsEmpty())
	assert.Nil(t, log.Entries())
	assert.Equal(t, "fossil", log.Kind())
}

func TestRevisionState(t *testing.T) {
	a := NewRevisionState("abc")
	assert.Equal(t, "abc", a.ID())
	assert.Equal(t, "abc", a.DisplayName())
	assert.Equal(t, "revision abc", a.String())
	assert.True(t, a.Equal(NewRevisionState("abc")))
	assert.False(t, a.Equal(NewRevisionState("abd")))
	assert.False(t, a.IsZero())
	assert.True(t, RevisionState{}.IsZero())
}

func TestChangeSetURL(t *testing.T) {
	assert.Equal(t, "http://host:8080/info/abc", ChangeSetURL("http://host:8080", "abc"))
	assert.Equal(t, "http://host:8080/repo/info/abc", ChangeSetURL("http://host:8080/repo/", "abc"))
	assert.Equal(t, "", ChangeSetURL("", "abc"))
	assert.Equal(t, "", ChangeSetURL("http://host", ""))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    ClientInfo
		wantErr bool
	}{
		{
			name:   "classic",
			output: "This is fossil version 1.22 [5dd5d39e7c] 2012-03-19 12:45:47 UTC\n",
			want:   ClientInfo{Version: "1.22", Checkin: "5dd5d39e7c", Date: "2012-03-19 12:45:47 UTC"},
		},
		{
			name:   "modern",
			output: "This is fossil version 2.23 [47362306a7] 2023-11-01 18:56:47 UTC\nCompiled on Nov  2 2023\n",
			want:   ClientInfo{Version: "2.23", Checkin: "47362306a7", Date: "2023-11-01 18:56:47 UTC"},
		},
		{name: "garbage", output: "command not found", wantErr: true},
		{name: "empty", output: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.output)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChangeEntry_User(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"first checkin. (user: jdoe tags: trunk)", "jdoe"},
		{"made a comment here.(user: user2)", "user2"},
		{"no user suffix", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChangeEntry{Message: tt.message}.User(), tt.message)
	}
}
