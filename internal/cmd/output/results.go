package output

import (
	"io"

	"github.com/openstatehouse/legisync/internal/cmd/table"
	"github.com/openstatehouse/legisync/pkg/legislature"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// Render writes value in the given format. Table output converts known
// result types into tables; json and yaml write the value unchanged.
func Render(w io.Writer, format Format, value any) error {
	formatter := NewFormatter(format)
	if format != FormatTable && format != "" {
		return formatter.Format(w, value)
	}
	return formatter.Format(w, toTableData(value))
}

func toTableData(value any) any {
	switch v := value.(type) {
	case *pkgsync.Result:
		return table.ResultToTableData(v)
	case *pkgsync.JurisdictionResult:
		return table.JurisdictionToTableData(v)
	case *pkgsync.SessionsResult:
		return table.SessionsToTableData(v)
	case *pkgsync.MembersResult:
		return table.MembersToTableData(v)
	case *pkgsync.LegislationResult:
		return table.LegislationResultsToTableData(v)
	case *pkgsync.VotesResult:
		return table.VotesToTableData(v)
	case legislature.Page[legislature.Legislation]:
		return table.LegislationToTableData(v)
	default:
		return value
	}
}
