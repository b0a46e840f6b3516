package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/dayplanner/internal/scheduler"
)

func TestSampleBuilds(t *testing.T) {
	tasks, err := Sample().Build()
	require.NoError(t, err)
	require.Len(t, tasks, 10)

	assert.True(t, tasks[0].HasTimeConstraint)
	assert.Equal(t, 8*60, tasks[0].StartTime)
	assert.True(t, tasks[9].HasTimeConstraint)
	assert.Equal(t, 13*60, tasks[9].StartTime)
	assert.Equal(t, []int{3}, tasks[9].DependencyIDs())
}

func TestSampleIsFreshEachCall(t *testing.T) {
	first, err := Sample().Build()
	require.NoError(t, err)
	first[1].Dependencies = map[int]struct{}{}

	second, err := Sample().Build()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, second[1].DependencyIDs())
}

func TestWriteLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"day.json", "day.yaml", "day.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, Write(path, Sample()))

			loaded, err := Load(path)
			require.NoError(t, err)
			require.NotNil(t, loaded.StartHour)
			assert.Equal(t, SampleStartHour, *loaded.StartHour)
			assert.Equal(t, Sample().Tasks, loaded.Tasks)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.yaml")
	doc := `
tasks:
  - id: 1
    description: Stand-up
    duration: 15
    preference: 5
    start: "09:30"
  - id: 2
    description: Write report
    duration: 45
    depends_on: [1]
    preference: 7
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, f.StartHour)
	assert.Equal(t, []scheduler.TaskSpec{
		{ID: 1, Description: "Stand-up", Duration: 15, Preference: 5, Start: "09:30"},
		{ID: 2, Description: "Write report", Duration: 45, DependsOn: []int{1}, Preference: 7},
	}, f.Tasks)

	tasks, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, tasks[0].StartTime)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "day.txt")
	require.NoError(t, os.WriteFile(txt, []byte("tasks: []"), 0644))
	_, err = Load(txt)
	assert.ErrorContains(t, err, "unsupported")

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"tasks": []}`), 0644))
	_, err = Load(empty)
	assert.ErrorContains(t, err, "no tasks")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("tasks: [:"), 0644))
	_, err = Load(broken)
	assert.ErrorContains(t, err, "parsing")
}

func TestBuildRejectsInvalid(t *testing.T) {
	f := &File{Tasks: []scheduler.TaskSpec{{ID: 1, Description: "x", Duration: 10, Preference: 0}}}
	_, err := f.Build()
	assert.ErrorIs(t, err, scheduler.ErrInvalidTask)
}
