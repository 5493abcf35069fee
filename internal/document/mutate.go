package document

// Snapshot mutators. Each function leaves its input untouched and returns a
// new StoredDocument with only the affected path rebuilt: the versions
// list, the latest version, and (for section edits) that version's section
// list. All edits target the latest version only; historical versions are
// never modified.

// SetTitle returns a snapshot whose latest version carries the new title.
func SetTitle(doc StoredDocument, title string) StoredDocument {
	v := doc.Latest()
	v.Title = title
	return ReplaceLatestVersion(doc, v)
}

// SetSectionTitle returns a snapshot with the titled renamed on the section
// at index within the latest version. An out-of-range index returns the
// input unchanged.
func SetSectionTitle(doc StoredDocument, index int, title string) StoredDocument {
	return patchSection(doc, index, func(s DocumentSection) DocumentSection {
		s.Title = title
		return s
	})
}

// SetSectionContent returns a snapshot with the content replaced on the
// section at index within the latest version. An out-of-range index returns
// the input unchanged.
func SetSectionContent(doc StoredDocument, index int, content string) StoredDocument {
	return patchSection(doc, index, func(s DocumentSection) DocumentSection {
		s.Content = content
		return s
	})
}

// AppendComment returns a snapshot with the comment appended to the section
// at index within the latest version, initializing the comment list when
// absent. Comments are persisted immediately by the caller; they do not
// take part in draft/discard editing sessions.
func AppendComment(doc StoredDocument, index int, c Comment) StoredDocument {
	return patchSection(doc, index, func(s DocumentSection) DocumentSection {
		comments := make([]Comment, len(s.Comments), len(s.Comments)+1)
		copy(comments, s.Comments)
		s.Comments = append(comments, c)
		return s
	})
}

// ReplaceLatestVersion returns a snapshot whose latest version is v; the
// rest of the lineage is kept.
func ReplaceLatestVersion(doc StoredDocument, v DocumentVersion) StoredDocument {
	versions := make([]DocumentVersion, len(doc.Versions))
	copy(versions, doc.Versions)
	versions[len(versions)-1] = v
	doc.Versions = versions
	return doc
}

// AppendVersion returns a snapshot with v appended as the new latest
// version.
func AppendVersion(doc StoredDocument, v DocumentVersion) StoredDocument {
	versions := make([]DocumentVersion, len(doc.Versions), len(doc.Versions)+1)
	copy(versions, doc.Versions)
	doc.Versions = append(versions, v)
	return doc
}

func patchSection(doc StoredDocument, index int, fn func(DocumentSection) DocumentSection) StoredDocument {
	v := doc.Latest()
	if index < 0 || index >= len(v.Sections) {
		return doc
	}
	sections := make([]DocumentSection, len(v.Sections))
	copy(sections, v.Sections)
	sections[index] = fn(sections[index])
	v.Sections = sections
	return ReplaceLatestVersion(doc, v)
}
