package graphfile

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"

	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
)

// WriteGML writes t in the GML subset ReadGML understands.
// Edge endpoints missing from t.Nodes are added as nodes.
func WriteGML(w io.Writer, t *model.Taxonomy) error {
	bw := bufio.NewWriter(w)

	ids := make(map[string]int, len(t.Nodes))
	var order []string
	add := func(name string) {
		if _, ok := ids[name]; !ok {
			ids[name] = len(order)
			order = append(order, name)
		}
	}
	for _, n := range t.Nodes {
		add(n)
	}
	for _, e := range t.Edges {
		add(e.Source)
		add(e.Target)
	}

	directed := 0
	if t.Directed {
		directed = 1
	}

	fmt.Fprintf(bw, "graph [\n  directed %d\n", directed)
	for _, name := range order {
		fmt.Fprintf(bw, "  node [\n    id %d\n    label \"%s\"\n  ]\n", ids[name], html.EscapeString(name))
	}
	for _, e := range t.Edges {
		fmt.Fprintf(
			bw,
			"  edge [\n    source %d\n    target %d\n    weight %s\n  ]\n",
			ids[e.Source], ids[e.Target], strconv.FormatFloat(e.Weight, 'g', -1, 64),
		)
	}
	fmt.Fprint(bw, "]\n")

	return bw.Flush()
}

// Write stores t in filePath, choosing GML or JSON by extension
func Write(filePath string, t *model.Taxonomy) error {
	format, err := FormatOf(filePath)
	if err != nil {
		return err
	}

	f, err := os.Create(filePath)
	if err != nil {
		return helper.NewError("create graph file", err)
	}

	switch format {
	case FormatGML:
		err = WriteGML(f, t)
	case FormatJSON:
		err = WriteJSON(f, t)
	default:
		err = fmt.Errorf("%w: writing %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		f.Close()
		return helper.NewError(fmt.Sprintf("write %s", format), err)
	}

	return f.Close()
}
