// Package export renders teacher- and student-facing documents from chat
// history: a plain text transcript (with a parser so archived transcripts
// stay machine-readable), an aggregate CSV snapshot, and an xlsx workbook.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/smartclassroom/classroom-api/internal/core/domain"
)

const (
	entrySeparator = "---"
	questionPrefix = "Q: "
	answerPrefix   = "A: "
	studentPrefix  = "Student: "
)

// RenderTranscript produces the single-student text document: per entry a
// timestamp line, a "Q: …" line, an "A: …" line, and a separator.
func RenderTranscript(student string, entries []domain.ChatEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chat History - %s\n\n", student)
	writeEntries(&sb, entries)
	return sb.String()
}

// RenderClassTranscript produces the all-students variant, grouped under a
// "Student: <name>" heading per student.
func RenderClassTranscript(activity []domain.StudentActivity) string {
	var sb strings.Builder
	sb.WriteString("Class Chat History\n\n")
	for _, a := range activity {
		sb.WriteString(studentPrefix + a.Student + "\n")
		writeEntries(&sb, a.Entries)
	}
	return sb.String()
}

func writeEntries(sb *strings.Builder, entries []domain.ChatEntry) {
	for _, e := range entries {
		sb.WriteString(e.Time.UTC().Format(time.RFC3339) + "\n")
		sb.WriteString(questionPrefix + e.Question + "\n")
		sb.WriteString(answerPrefix + e.Answer + "\n")
		sb.WriteString(entrySeparator + "\n")
	}
}

// ParsedEntry is one transcript entry read back from a document. Student is
// empty for single-student transcripts.
type ParsedEntry struct {
	Student string
	Entry   domain.ChatEntry
}

// ParseTranscript reads back a document produced by RenderTranscript or
// RenderClassTranscript. Questions and answers may span lines; an entry ends
// at a separator line followed by the start of the next entry (or EOF), so a
// bare "---" inside a question or answer stays part of the text.
func ParseTranscript(doc string) ([]ParsedEntry, error) {
	var (
		out      []ParsedEntry
		student  string
		cur      *ParsedEntry
		inAnswer bool
	)

	flush := func() error {
		if cur == nil {
			return nil
		}
		if !inAnswer {
			return fmt.Errorf("transcript entry without an answer line")
		}
		out = append(out, *cur)
		cur = nil
		inAnswer = false
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
	for i, line := range lines {
		switch {
		case cur == nil && strings.HasPrefix(line, studentPrefix):
			student = strings.TrimPrefix(line, studentPrefix)
		case cur == nil:
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(line))
			if err != nil {
				// Heading or blank line between entries.
				continue
			}
			cur = &ParsedEntry{Student: student, Entry: domain.ChatEntry{Time: t}}
		case line == entrySeparator && endsEntry(lines, i):
			if err := flush(); err != nil {
				return nil, err
			}
		case !inAnswer && strings.HasPrefix(line, answerPrefix):
			inAnswer = true
			cur.Entry.Answer = strings.TrimPrefix(line, answerPrefix)
		case !inAnswer && strings.HasPrefix(line, questionPrefix):
			cur.Entry.Question = strings.TrimPrefix(line, questionPrefix)
		case !inAnswer:
			cur.Entry.Question += "\n" + line
		default:
			cur.Entry.Answer += "\n" + line
		}
	}
	if cur != nil {
		return nil, fmt.Errorf("transcript ends mid-entry")
	}
	return out, nil
}

// endsEntry reports whether the separator at lines[i] closes an entry: the
// document ends there, or the next line opens a new entry or student group.
func endsEntry(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return true
	}
	next := lines[i+1]
	if strings.HasPrefix(next, studentPrefix) {
		return true
	}
	_, err := time.Parse(time.RFC3339, strings.TrimSpace(next))
	return err == nil
}

// AggregateCSV renders the teacher summary table: one row per (student,
// entry), header Student,Time,Question,Answer.
func AggregateCSV(activity []domain.StudentActivity) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"Student", "Time", "Question", "Answer"}}
	for _, a := range activity {
		for _, e := range a.Entries {
			rows = append(rows, []string{
				a.Student,
				e.Time.UTC().Format(time.RFC3339),
				e.Question,
				e.Answer,
			})
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write aggregate csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush aggregate csv: %w", err)
	}
	return buf.Bytes(), nil
}
