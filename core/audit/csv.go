package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
)

const (
	previewLength   = 100
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// CSVHeader is the header row of the audit export
var CSVHeader = []string{
	"ID",
	"Timestamp",
	"Query",
	"Response Preview",
	"Nodes Visited",
	"Traversal Hops",
	"Latency (ms)",
	"Evaluation Score",
	"Hallucination Detected",
	"Hallucination Confidence",
	"Compliance Regulations",
}

// WriteCSV writes one audit row per query
func WriteCSV(w io.Writer, queries []*model.QueryResult, nodes []*model.Node) error {
	byID := indexNodes(nodes)

	writer := csv.NewWriter(w)
	err := writer.Write(CSVHeader)
	if err != nil {
		return helper.NewError("write csv header", err)
	}

	for _, query := range queries {
		refs := regulations(query, byID)
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			names = append(names, fmt.Sprintf("%s (%s)", ref.Label, ref.ID))
		}

		err = writer.Write([]string{
			query.ID.String(),
			query.CreatedAt.UTC().Format(timestampFormat),
			query.Query,
			Preview(query.Response),
			strconv.Itoa(len(query.NodesVisited)),
			strconv.Itoa(len(query.TraversalPath)),
			strconv.FormatInt(query.RetrievalLatencyMs, 10),
			strconv.FormatFloat(query.EvaluationScore, 'f', -1, 64),
			strconv.FormatBool(query.HallucinationDetected),
			strconv.FormatFloat(query.HallucinationConfidence, 'f', -1, 64),
			strings.Join(names, "; "),
		})
		if err != nil {
			return helper.NewError("write csv row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return helper.NewError("flush csv", err)
	}
	return nil
}

// Preview returns the first 100 runes of a response on a single line
func Preview(response string) string {
	runes := []rune(response)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return strings.ReplaceAll(string(runes), "\n", " ")
}
