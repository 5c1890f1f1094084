package main

import (
	"encoding/base64"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/torresjeff/flv/amf/amf0"
	"gopkg.in/yaml.v3"
)

// writeYAML writes a document mapping path to v. Property order is kept.
func writeYAML(w io.Writer, path string, v amf0.Value) error {
	doc := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{stringNode(path), yamlNode(v)},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func yamlNode(v amf0.Value) *yaml.Node {
	switch v := v.(type) {
	case amf0.Number:
		return scalarNode("", formatNumber(float64(v)))
	case amf0.Boolean:
		return scalarNode("", strconv.FormatBool(bool(v)))
	case amf0.String:
		return stringNode(string(v))
	case amf0.LongString:
		return stringNode(string(v))
	case amf0.MovieClip:
		return stringNode(string(v))
	case amf0.Null, amf0.Undefined:
		return scalarNode("!!null", "null")
	case amf0.Reference:
		return scalarNode("", strconv.Itoa(int(v)))
	case amf0.Date:
		return scalarNode("!!timestamp", v.Time.Format(time.RFC3339Nano))
	case amf0.StrictArray:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, elem := range v {
			n.Content = append(n.Content, yamlNode(elem))
		}
		return n
	}
	props, _ := amf0.Properties(v)
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range props {
		n.Content = append(n.Content, stringNode(p.Key), yamlNode(p.Value))
	}
	return n
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// stringNode returns a string scalar. Strings that are not valid UTF-8 are
// emitted as !!binary.
func stringNode(s string) *yaml.Node {
	if !utf8.ValidString(s) {
		return scalarNode("!!binary", base64.StdEncoding.EncodeToString([]byte(s)))
	}
	return scalarNode("!!str", s)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
