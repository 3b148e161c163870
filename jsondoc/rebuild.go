package jsondoc

import "sort"

// SetPath returns a new root with val stored at path. root is not modified;
// containers along the path are copied and everything else is shared.
//
// Write-back is lenient: a missing intermediate container, or a scalar
// standing where a container is needed, is replaced by an empty object, and
// an index past the end of an array pads the array with nulls. A non-numeric
// key applied to an array leaves the array unchanged, since arrays carry no
// named members in JSON. An empty path replaces the root.
func SetPath(root *Value, path string, val *Value) *Value {
	return setAt(root, ParsePath(path), val)
}

// SetString is SetPath for a string value.
func SetString(root *Value, path, s string) *Value {
	return SetPath(root, path, NewString(s))
}

func setAt(node *Value, segs []Segment, val *Value) *Value {
	if len(segs) == 0 {
		return val
	}
	seg, rest := segs[0], segs[1:]

	if node != nil && node.Kind == Array {
		idx, ok := seg.arrayIndex()
		if !ok {
			return node
		}
		items := make([]*Value, len(node.Items), max(len(node.Items), idx+1))
		copy(items, node.Items)
		for len(items) <= idx {
			items = append(items, NewNull())
		}
		child := items[idx]
		if len(rest) > 0 && !isContainer(child) {
			child = nil
		}
		items[idx] = setAt(child, rest, val)
		return &Value{Kind: Array, Items: items}
	}

	obj := &Value{Kind: Object}
	if node != nil && node.Kind == Object {
		obj.Members = make([]Member, len(node.Members))
		copy(obj.Members, node.Members)
	}

	child, _ := obj.Get(seg.Key)
	if len(rest) > 0 && !isContainer(child) {
		child = nil
	}
	obj.Set(seg.Key, setAt(child, rest, val))
	return obj
}

func isContainer(v *Value) bool {
	return v != nil && (v.Kind == Object || v.Kind == Array)
}

// Reconstruct deep-clones src and writes each override into the clone.
// src is never modified, so repeated calls always start from the pristine
// source. Overrides are applied in sorted path order.
func Reconstruct(src *Value, overrides map[string]string) *Value {
	out := src.Clone()
	if out == nil {
		out = NewNull()
	}

	paths := make([]string, 0, len(overrides))
	for p := range overrides {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		out = SetString(out, p, overrides[p])
	}
	return out
}

// Lookup returns the value stored at path.
func Lookup(root *Value, path string) (*Value, bool) {
	cur := root
	for _, seg := range ParsePath(path) {
		if cur == nil {
			return nil, false
		}
		switch cur.Kind {
		case Object:
			next, ok := cur.Get(seg.Key)
			if !ok {
				return nil, false
			}
			cur = next
		case Array:
			idx, ok := seg.arrayIndex()
			if !ok || idx >= len(cur.Items) {
				return nil, false
			}
			cur = cur.Items[idx]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}
