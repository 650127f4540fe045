package monday

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func refsFor(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a'+i)) + "-file"
	}
	return ids
}

func TestResolveRefs(t *testing.T) {
	refs := ResolveRefs([]string{
		"1AbC",
		"  ",
		"data:image/png;base64,iVBORw0KGgo=",
		"https://res.cloudinary.com/demo/image/upload/sample.jpg",
	})

	require.Len(t, refs, 2)

	assert.Equal(t, "https://drive.google.com/uc?export=view&id=1AbC", refs[0].DirectURL)
	assert.Equal(t, "https://drive.google.com/file/d/1AbC/view?usp=sharing", refs[0].ShareURL)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=1AbC", refs[0].BoardURL)
	assert.Equal(t, "attachment-1", refs[0].Name)

	url := "https://res.cloudinary.com/demo/image/upload/sample.jpg"
	assert.Equal(t, url, refs[1].DirectURL)
	assert.Equal(t, url, refs[1].ShareURL)
	assert.Equal(t, url, refs[1].BoardURL)
	assert.Equal(t, "sample.jpg", refs[1].Name)
}

func TestDistribute(t *testing.T) {
	tests := []struct {
		name     string
		n, m     int
		expected []int
	}{
		{"even", 6, 3, []int{2, 2, 2}},
		{"remainder in last", 5, 3, []int{2, 2, 1}},
		{"last column empty", 4, 3, []int{2, 2, 0}},
		{"fewer files than columns", 1, 3, []int{1, 0, 0}},
		{"two columns", 7, 2, []int{4, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chunks := distribute(ResolveRefs(refsFor(tc.n)), tc.m)
			require.Len(t, chunks, tc.m)

			sizes := make([]int, len(chunks))
			for i, chunk := range chunks {
				sizes[i] = len(chunk)
			}
			assert.Equal(t, tc.expected, sizes)
		})
	}
}

func TestResolverResolve(t *testing.T) {
	resolver := Resolver{FallbackColumns: []string{"", "files_fallback", "files_other"}}

	fileA := Column{ID: "files_a", Title: "Files A", Type: "file"}
	fileB := Column{ID: "files_b", Title: "Files B", Type: "file"}
	fileC := Column{ID: "files_c", Title: "Files C", Type: "file"}
	media := Column{ID: "files_media", Title: "รูป/วีดิโอประกอบ", Type: "file"}
	text := Column{ID: "text_photo", Title: "Photo notes", Type: "text"}

	tests := []struct {
		name             string
		ids              []string
		columns          []Column
		expectedStrategy Strategy
		expectedColumns  map[string]int
	}{
		{
			name:             "no identifiers",
			ids:              nil,
			columns:          []Column{fileA},
			expectedStrategy: StrategyNone,
			expectedColumns:  map[string]int{},
		},
		{
			name:             "media column wins",
			ids:              refsFor(3),
			columns:          []Column{fileA, media, fileB},
			expectedStrategy: StrategyMediaColumn,
			expectedColumns:  map[string]int{"files_media": 3},
		},
		{
			name:             "media keyword is case insensitive",
			ids:              refsFor(2),
			columns:          []Column{fileA, {ID: "files_img", Title: "Uploaded IMAGES", Type: "file"}},
			expectedStrategy: StrategyMediaColumn,
			expectedColumns:  map[string]int{"files_img": 2},
		},
		{
			name:             "single generic column",
			ids:              refsFor(3),
			columns:          []Column{text, fileA},
			expectedStrategy: StrategySingleColumn,
			expectedColumns:  map[string]int{"files_a": 3},
		},
		{
			name:             "distributed across columns",
			ids:              refsFor(5),
			columns:          []Column{fileA, fileB, fileC},
			expectedStrategy: StrategyDistributed,
			expectedColumns:  map[string]int{"files_a": 2, "files_b": 2, "files_c": 1},
		},
		{
			name:             "empty chunk not emitted",
			ids:              refsFor(4),
			columns:          []Column{fileA, fileB, fileC},
			expectedStrategy: StrategyDistributed,
			expectedColumns:  map[string]int{"files_a": 2, "files_b": 2},
		},
		{
			name:             "fallback when discovery empty",
			ids:              refsFor(2),
			columns:          nil,
			expectedStrategy: StrategyFallback,
			expectedColumns:  map[string]int{"files_fallback": 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := resolver.Resolve(tc.ids, tc.columns)

			assert.Equal(t, tc.expectedStrategy, plan.Strategy)

			got := map[string]int{}
			for _, a := range plan.Assignments {
				got[a.ColumnID] = len(a.Refs)
			}
			assert.Equal(t, tc.expectedColumns, got)
		})
	}
}

func TestAttachmentPlanText(t *testing.T) {
	plan := Resolver{}.Resolve([]string{"id1", "id2"}, nil)

	assert.Equal(t, StrategyNone, plan.Strategy)
	assert.Empty(t, plan.UploadColumn())
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=id1\nhttps://drive.google.com/uc?export=view&id=id2", plan.DirectLinks())
	assert.Equal(t, "https://drive.google.com/file/d/id1/view?usp=sharing\nhttps://drive.google.com/file/d/id2/view?usp=sharing", plan.ShareLinks())
	assert.Contains(t, plan.DescriptionNote(), plan.ShareLinks())
	assert.Empty(t, AttachmentPlan{}.DescriptionNote())
}
