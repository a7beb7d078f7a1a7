package engine

import (
	"fmt"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()

	dirty, err := snaps.Clean(m)
	if err != nil {
		fmt.Println("error cleaning snapshots:", err)
		os.Exit(1)
	}
	if dirty {
		fmt.Println("some snapshots were outdated")
		os.Exit(1)
	}

	os.Exit(v)
}

// TestSnapshotRewriteOutput pins the final SQL text the rewrite stage
// produces for a handful of representative templates, so a change to the
// cleanup regexes in rewrite.go shows up as a diff against a checked-in
// golden file instead of a silent behavior drift.
func TestSnapshotRewriteOutput(t *testing.T) {
	cases := map[string]struct {
		src string
		b   Bindings
		dia Dialect
	}{
		"removed_trailing_predicate": {
			src: "SELECT * FROM t WHERE a = /* $a */1 AND b = /* $b */2",
			b:   Bindings{"a": Scalar(10)},
			dia: DialectQuestionMark,
		},
		"collapsed_nested_group": {
			src: "WHERE a = /* $a */1 AND ( s = /* $s1 */'p' OR s = /* $s2 */'q' )",
			b:   Bindings{"a": Scalar(1)},
			dia: DialectQuestionMark,
		},
		"oracle_named_placeholders": {
			src: "select * from t\nwhere id = /*id*/1\nlimit /*limit*/1",
			b:   Bindings{"id": Scalar(1), "limit": Scalar(10)},
			dia: Dialect{Placeholder: NamedColon},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse(tc.src, "t.sql", tc.b, tc.dia)
			if err != nil {
				t.Fatalf("parse %s: %v", name, err)
			}
			snaps.MatchSnapshot(t, doc.SQL)
		})
	}
}
