package approval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field spellings accepted at the decoding boundary. Older hierarchy data uses
// "condtion" and "previous"; both map onto the canonical Record fields.
var (
	conditionKeys      = []string{"condition", "condtion"}
	previousStatusKeys = []string{"previous_status", "previous"}
)

// Request is a self-contained derivation input: a hierarchy, the status an
// expense is in and the context its conditions are evaluated against.
type Request struct {
	Hierarchy     Hierarchy
	CurrentStatus string
	Context       Context
}

// DecodeHierarchy decodes a JSON or YAML status->approvers mapping, keeping key order
func DecodeHierarchy(data []byte) (Hierarchy, error) {
	root, err := parseDocument(data)
	if err != nil {
		return Hierarchy{}, err
	}
	return DecodeHierarchyNode(root)
}

// DecodeRequest decodes {hierarchy, current_status, amount}
func DecodeRequest(data []byte) (Request, error) {
	root, err := parseDocument(data)
	if err != nil {
		return Request{}, err
	}
	if root.Kind != yaml.MappingNode {
		return Request{}, configErrorf("", "request must be a mapping, got %s", kindName(root))
	}

	var req Request
	var haveHierarchy, haveStatus bool
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, resolve(root.Content[i+1])
		switch key {
		case "hierarchy", "approval_hierarchy":
			h, err := DecodeHierarchyNode(value)
			if err != nil {
				return Request{}, err
			}
			req.Hierarchy = h
			haveHierarchy = true
		case "current_status", "currentStatus":
			if value.Kind != yaml.ScalarNode || value.Tag != "!!str" {
				return Request{}, configErrorf(key, "current status must be a string")
			}
			req.CurrentStatus = value.Value
			haveStatus = true
		case "amount", "expense_amount":
			if v, ok := scalarFloat(value); ok {
				req.Context = WithAmount(v)
			}
		}
	}

	if !haveHierarchy {
		return Request{}, configErrorf("hierarchy", "missing")
	}
	if !haveStatus {
		return Request{}, configErrorf("current_status", "missing")
	}
	return req, nil
}

// DecodeHierarchyNode decodes an already parsed mapping node
func DecodeHierarchyNode(node *yaml.Node) (Hierarchy, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return Hierarchy{}, configErrorf("", "hierarchy must be a mapping, got %s", kindName(node))
	}

	h := NewHierarchy()
	for i := 0; i+1 < len(node.Content); i += 2 {
		status := node.Content[i].Value
		records, err := decodeStage(status, resolve(node.Content[i+1]))
		if err != nil {
			return Hierarchy{}, err
		}
		if err := h.Append(status, records...); err != nil {
			return Hierarchy{}, configErrorf(status, "duplicate status")
		}
	}
	return h, nil
}

func parseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", ErrConfiguration, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, configErrorf("", "empty document")
	}
	return resolve(doc.Content[0]), nil
}

func decodeStage(status string, node *yaml.Node) ([]Record, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, configErrorf(status, "stage must be a sequence, got %s", kindName(node))
	}

	records := make([]Record, 0, len(node.Content))
	for i, item := range node.Content {
		item = resolve(item)
		path := fmt.Sprintf("%s[%d]", status, i)
		if item.Kind != yaml.MappingNode {
			return nil, configErrorf(path, "record must be a mapping, got %s", kindName(item))
		}
		records = append(records, decodeRecord(item))
	}
	return records, nil
}

// decodeRecord maps record fields with defaults. Values of the wrong type are
// treated as absent rather than rejected.
func decodeRecord(node *yaml.Node) Record {
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = resolve(node.Content[i+1])
	}

	r := Record{
		Role:           scalarString(fields["role"]),
		RoleUUID:       scalarString(fields["role_uuid"]),
		UserName:       scalarString(fields["user_name"]),
		UserUUID:       scalarString(fields["user_uuid"]),
		Level:          scalarLevel(fields["level"]),
		CurrentStatus:  scalarString(fields["current_status"]),
		NextStatus:     scalarString(fields["next_status"]),
		ApprovedByUUID: scalarStringPtr(fields["approved_by_uuid"]),
		ApprovedByName: scalarStringPtr(fields["approved_by_name"]),
		CurrentPointer: scalarBoolPtr(fields["current_pointer"]),
		IsCompleted:    scalarBoolPtr(fields["is_completed"]),
		Remark:         scalarString(fields["remark"]),
	}
	r.PreviousStatus = scalarString(firstField(fields, previousStatusKeys))
	r.Conditions = ParsePredicates(stringList(firstField(fields, conditionKeys)))
	return r
}

func firstField(fields map[string]*yaml.Node, keys []string) *yaml.Node {
	for _, k := range keys {
		if n, ok := fields[k]; ok && !isEmpty(n) {
			return n
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// isEmpty treats null and empty sequences as absent
func isEmpty(n *yaml.Node) bool {
	return isNull(n) || (n.Kind == yaml.SequenceNode && len(n.Content) == 0)
}

func scalarString(n *yaml.Node) string {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

func scalarStringPtr(n *yaml.Node) *string {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return nil
	}
	v := n.Value
	return &v
}

func scalarBoolPtr(n *yaml.Node) *bool {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return nil
	}
	b, err := strconv.ParseBool(n.Value)
	if err != nil {
		return nil
	}
	return &b
}

func scalarFloat(n *yaml.Node) (float64, bool) {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// scalarLevel accepts 1, 1.0 and "1". Anything else, fractions included, is level 0.
func scalarLevel(n *yaml.Node) int {
	v, ok := scalarFloat(n)
	if !ok || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0
	}
	return int(v)
}

// stringList accepts a sequence of strings or a single string
func stringList(n *yaml.Node) []string {
	if isNull(n) {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if item.Kind == yaml.ScalarNode && !isNull(item) {
				out = append(out, item.Value)
			}
		}
		return out
	}
	return nil
}

func kindName(n *yaml.Node) string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	default:
		return "unknown node"
	}
}
