package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bluesky/catalog-server-from-scratch/pkg/datasource"
	"github.com/bluesky/catalog-server-from-scratch/pkg/page"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeStructured writes v as JSON, or as protojson when the output format
// is proto and the value has a protobuf form. It reports false for table
// output, leaving rendering to the caller.
func (a *app) writeStructured(v any, toProto func() (*structpb.Struct, error)) (bool, error) {
	switch a.cfg.Output {
	case "proto":
		if toProto == nil {
			return true, writeJSON(a.out, v)
		}
		msg, err := toProto()
		if err != nil {
			return true, err
		}
		return true, writeProto(a.out, msg)
	case "json":
		return true, writeJSON(a.out, v)
	default:
		return false, nil
	}
}

func writeProto(w io.Writer, msg *structpb.Struct) error {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode protojson: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(true)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	return t
}

func renderPage(w io.Writer, p *page.Page, fields []page.Field) {
	header := []string{"key"}
	if len(fields) > 0 {
		header = append(header, "type")
	}
	for _, f := range fields {
		header = append(header, string(f))
	}

	t := newTable(w, header...)
	for _, r := range p.Data {
		row := []string{r.ID}
		if len(fields) > 0 {
			row = append(row, string(r.Type))
		}
		for _, f := range fields {
			row = append(row, attributeCell(r.Attributes, f))
		}
		t.Append(row)
	}
	t.Render()

	if len(p.Data) == 0 {
		fmt.Fprintf(w, "0 of %d\n", p.Total)
	} else {
		fmt.Fprintf(w, "%d-%d of %d\n", p.Offset+1, p.Offset+len(p.Data), p.Total)
	}
	if p.Links.Next != "" {
		fmt.Fprintf(w, "next: %s\n", p.Links.Next)
	}
}

func attributeCell(attrs page.Attributes, f page.Field) string {
	switch f {
	case page.FieldCount:
		if attrs.Count != nil {
			return strconv.Itoa(*attrs.Count)
		}
	case page.FieldStructure:
		if s := attrs.Structure; s != nil {
			return fmt.Sprintf("%s %v blocks %v", s.DType, s.Shape, s.Blocks())
		}
	case page.FieldMetadata:
		if len(attrs.Metadata) > 0 {
			data, err := json.Marshal(attrs.Metadata)
			if err == nil {
				return string(data)
			}
		}
	}
	return ""
}

func renderBlock(w io.Writer, a *datasource.Array) {
	shape := a.Shape()
	data := a.Read()
	if len(shape) != 2 {
		fmt.Fprintln(w, data)
		return
	}

	header := make([]string, shape[1])
	for j := range header {
		header[j] = strconv.Itoa(j)
	}
	t := newTable(w, header...)
	for i := 0; i < shape[0]; i++ {
		row := make([]string, shape[1])
		for j := range row {
			row[j] = strconv.FormatFloat(data[i*shape[1]+j], 'g', -1, 64)
		}
		t.Append(row)
	}
	t.Render()
}

func renderShapes(w io.Writer, searchable, decodable []string) {
	shapes := slices.Concat(searchable, decodable)
	slices.Sort(shapes)

	t := newTable(w, "shape", "search", "decode")
	for _, s := range slices.Compact(shapes) {
		t.Append([]string{s, yesNo(slices.Contains(searchable, s)), yesNo(slices.Contains(decodable, s))})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
