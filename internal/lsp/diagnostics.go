package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"gocst/internal/diag"
	"gocst/internal/source"
)

const diagnosticSource = "gocst"

func severityToLSP(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// toLSPDiagnostics converts a parse bag for the document at uri. Notes that
// point into the same file become related information.
func toLSPDiagnostics(uri string, file *source.File, items []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(items))
	src := diagnosticSource
	for i := range items {
		d := &items[i]
		if file != nil && d.Primary.File != file.ID {
			continue
		}
		sev := severityToLSP(d.Severity)
		code := protocol.IntegerOrString{Value: d.Code.ID()}
		item := protocol.Diagnostic{
			Range:    rangeForSpan(file, d.Primary),
			Severity: &sev,
			Code:     &code,
			Source:   &src,
			Message:  d.Message,
		}
		for _, note := range d.Notes {
			if file == nil || note.Span.File != file.ID {
				continue
			}
			item.RelatedInformation = append(item.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{URI: uri, Range: rangeForSpan(file, note.Span)},
				Message:  note.Msg,
			})
		}
		out = append(out, item)
	}
	return out
}
