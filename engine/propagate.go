package engine

// Propagate walks the tree in post-order and marks each LogicalLine
// Removed once every condition that would keep it alive has failed (spec
// §4.7):
//
//   - a CTE header line is never auto-removed (Open Question (a));
//   - a line with at least one ParamSite is removed when all of its sites
//     resolved negative and every child (if any) has been removed;
//   - a line with no sites of its own but with children is removed once
//     every child has been removed, so a bare "WHERE" or "AND (" header
//     disappears along with the conditions it introduced;
//   - a leaf line with neither sites nor children is never removed: it is
//     static SQL text.
func Propagate(root *LogicalLine) {
	for _, c := range root.Children {
		propagateLine(c)
	}
}

func propagateLine(l *LogicalLine) {
	for _, c := range l.Children {
		propagateLine(c)
	}

	if l.CTEHeader {
		return
	}

	if hasBindSites(l.Sites) {
		l.Removed = allSitesRemoved(l.Sites) && allChildrenRemoved(l.Children)
		return
	}

	if len(l.Children) > 0 {
		l.Removed = allChildrenRemoved(l.Children)
	}
}

func hasBindSites(sites []*ParamSite) bool {
	for _, s := range sites {
		if s.Kind == SiteBind {
			return true
		}
	}
	return false
}

func allSitesRemoved(sites []*ParamSite) bool {
	for _, s := range sites {
		if s.Kind != SiteBind {
			continue
		}
		if !s.removed {
			return false
		}
	}
	return true
}

func allChildrenRemoved(children []*LogicalLine) bool {
	for _, c := range children {
		if !c.Removed {
			return false
		}
	}
	return true
}
