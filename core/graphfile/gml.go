package graphfile

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"unicode"

	"github.com/siherrmann/metonym/model"
)

// gmlValue is a number, a string or a nested list of key value pairs
type gmlValue struct {
	str   string
	num   float64
	isNum bool
	list  []gmlPair
}

type gmlPair struct {
	key   string
	value gmlValue
}

func (v gmlValue) ident() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v gmlValue) get(key string) (gmlValue, bool) {
	for _, p := range v.list {
		if p.key == key {
			return p.value, true
		}
	}
	return gmlValue{}, false
}

// ReadGML parses the GML subset networkx writes: one graph with node and edge lists.
// Nodes are named by their label (falling back to their id), edges reference node ids.
func ReadGML(r io.Reader) (*model.Taxonomy, error) {
	p := &gmlParser{r: bufio.NewReader(r), line: 1}

	top, err := p.parseList(false)
	if err != nil {
		return nil, err
	}

	g, ok := top.get("graph")
	if !ok || g.list == nil {
		return nil, fmt.Errorf("gml: no graph list found")
	}

	t := &model.Taxonomy{}
	if d, ok := g.get("directed"); ok && d.isNum && d.num != 0 {
		t.Directed = true
	}

	names := make(map[string]string)
	labels := make(map[string]bool)
	for _, pair := range g.list {
		if pair.key != "node" {
			continue
		}

		id, ok := pair.value.get("id")
		if !ok {
			return nil, fmt.Errorf("gml: node without id")
		}
		name := id.ident()
		if label, ok := pair.value.get("label"); ok {
			name = label.ident()
		}
		if _, dup := names[id.ident()]; dup {
			return nil, fmt.Errorf("gml: duplicate node id %s", id.ident())
		}
		if labels[name] {
			return nil, fmt.Errorf("gml: duplicate node label %q", name)
		}
		labels[name] = true

		names[id.ident()] = name
		t.AddNode(name)
	}

	for _, pair := range g.list {
		if pair.key != "edge" {
			continue
		}

		source, okSource := pair.value.get("source")
		target, okTarget := pair.value.get("target")
		if !okSource || !okTarget {
			return nil, fmt.Errorf("gml: edge without source or target")
		}

		from, ok := names[source.ident()]
		if !ok {
			return nil, fmt.Errorf("gml: edge source %s is not a node", source.ident())
		}
		to, ok := names[target.ident()]
		if !ok {
			return nil, fmt.Errorf("gml: edge target %s is not a node", target.ident())
		}

		weight := model.DefaultEdgeWeight
		if w, ok := pair.value.get("weight"); ok {
			if !w.isNum {
				return nil, fmt.Errorf("gml: edge %s -> %s has non numeric weight %q", from, to, w.str)
			}
			weight = w.num
		}

		t.AddEdge(from, to, weight)
	}

	return t, nil
}

type gmlParser struct {
	r    *bufio.Reader
	line int
}

// parseList reads key value pairs until EOF or, if nested, the closing bracket
func (p *gmlParser) parseList(nested bool) (gmlValue, error) {
	list := gmlValue{list: []gmlPair{}}

	for {
		tok, err := p.token()
		if err == io.EOF {
			if nested {
				return list, fmt.Errorf("gml line %d: unexpected end of input, missing ]", p.line)
			}
			return list, nil
		}
		if err != nil {
			return list, err
		}

		if tok == "]" {
			if !nested {
				return list, fmt.Errorf("gml line %d: unexpected ]", p.line)
			}
			return list, nil
		}
		if !isKey(tok) {
			return list, fmt.Errorf("gml line %d: expected key, got %q", p.line, tok)
		}

		value, err := p.parseValue()
		if err != nil {
			return list, err
		}
		list.list = append(list.list, gmlPair{key: tok, value: value})
	}
}

func (p *gmlParser) parseValue() (gmlValue, error) {
	tok, err := p.token()
	if err == io.EOF {
		return gmlValue{}, fmt.Errorf("gml line %d: unexpected end of input, missing value", p.line)
	}
	if err != nil {
		return gmlValue{}, err
	}

	switch {
	case tok == "[":
		return p.parseList(true)
	case len(tok) >= 2 && tok[0] == '"':
		return gmlValue{str: html.UnescapeString(tok[1 : len(tok)-1])}, nil
	default:
		num, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return gmlValue{}, fmt.Errorf("gml line %d: invalid value %q", p.line, tok)
		}
		return gmlValue{num: num, isNum: true}, nil
	}
}

// token returns the next bracket, quoted string (with quotes) or bare word
func (p *gmlParser) token() (string, error) {
	for {
		c, err := p.r.ReadByte()
		if err != nil {
			return "", err
		}

		switch {
		case c == '\n':
			p.line++
		case c == '#':
			if _, err := p.r.ReadString('\n'); err != nil {
				return "", err
			}
			p.line++
		case unicode.IsSpace(rune(c)):
		case c == '[' || c == ']':
			return string(c), nil
		case c == '"':
			s, err := p.r.ReadString('"')
			if err != nil {
				return "", fmt.Errorf("gml line %d: unterminated string", p.line)
			}
			for _, r := range s {
				if r == '\n' {
					p.line++
				}
			}
			return `"` + s, nil
		default:
			word := []byte{c}
			for {
				c, err := p.r.ReadByte()
				if err == io.EOF {
					return string(word), nil
				}
				if err != nil {
					return "", err
				}
				if unicode.IsSpace(rune(c)) || c == '[' || c == ']' {
					_ = p.r.UnreadByte()
					return string(word), nil
				}
				word = append(word, c)
			}
		}
	}
}

func isKey(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		if !(r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return true
}
