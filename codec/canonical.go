package codec

import (
	"encoding"
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/speakeasy-api/yamlcodec/values"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	numberType   = reflect.TypeOf(json.Number(""))
)

// untypedMap is implemented by insertion ordered maps such as *sequencedmap.Map.
type untypedMap interface {
	AllUntyped() iter.Seq2[any, any]
}

// identity is the host identity of a container, used to share canonical containers when aliases are enabled.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// ToCanonical normalises a host value into the canonical value tree.
//
// Maps, ordered maps and structs become *values.Map, slices and arrays become *values.List and values
// without a scalar rendering become values.Opaque. Nesting deeper than ctx.MaxRecursionDepth fails with
// ErrRecursionLimitExceeded. When aliases are enabled, host containers sharing an identity normalise to
// the same *values.List or *values.Map.
func ToCanonical(v any, ctx EncodeContext) (values.Value, error) {
	c := &canonicalizer{maxDepth: ctx.maxDepth()}
	if !ctx.DisableAliases {
		c.shared = make(map[identity]values.Value)
	}
	return c.convert(reflect.ValueOf(v), 0)
}

type canonicalizer struct {
	maxDepth int
	shared   map[identity]values.Value
}

func (c *canonicalizer) enter(depth int) (int, error) {
	depth++
	if depth > c.maxDepth {
		return depth, ErrRecursionLimitExceeded.Wrapf("nesting depth exceeds %d", c.maxDepth)
	}
	return depth, nil
}

func (c *canonicalizer) lookup(id identity, ok bool) (values.Value, bool) {
	if c.shared == nil || !ok {
		return nil, false
	}
	v, found := c.shared[id]
	return v, found
}

func (c *canonicalizer) remember(id identity, ok bool, v values.Value) {
	if c.shared != nil && ok {
		c.shared[id] = v
	}
}

func (c *canonicalizer) convert(val reflect.Value, depth int) (values.Value, error) {
	var via uintptr
	for hops := 0; val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface); hops++ {
		if hops > c.maxDepth {
			return nil, ErrRecursionLimitExceeded.Wrapf("pointer chain longer than %d", c.maxDepth)
		}
		if val.IsNil() {
			return values.Null{}, nil
		}
		if val.Kind() == reflect.Pointer {
			via = val.Pointer()
		}
		val = val.Elem()
	}

	if !val.IsValid() {
		return values.Null{}, nil
	}

	if v, ok, err := c.convertSpecial(val, depth); ok || err != nil {
		return v, err
	}

	switch val.Kind() {
	case reflect.Bool:
		return values.Bool(val.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return values.Int(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := val.Uint()
		if u > math.MaxInt64 {
			return opaque(val), nil
		}
		return values.Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return values.Float(val.Float()), nil
	case reflect.String:
		return values.String(val.String()), nil
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return opaque(val), nil
		}
		return c.convertList(val, depth, via)
	case reflect.Array:
		return c.convertList(val, depth, via)
	case reflect.Map:
		return c.convertMap(val, depth)
	case reflect.Struct:
		return c.convertStruct(val, depth, via)
	default:
		// complex numbers, channels, functions, unsafe pointers and uintptr
		return opaque(val), nil
	}
}

// convertSpecial handles types with a defined rendering that reflection on their kind would get wrong.
func (c *canonicalizer) convertSpecial(val reflect.Value, depth int) (values.Value, bool, error) {
	if !val.CanInterface() {
		return nil, false, nil
	}

	switch val.Type() {
	case timeType:
		return values.Timestamp(val.Interface().(time.Time)), true, nil
	case durationType:
		return values.String(time.Duration(val.Int()).String()), true, nil
	case numberType:
		v, err := convertNumber(json.Number(val.String()))
		return v, true, err
	}

	for _, candidate := range interfaceCandidates(val) {
		switch x := candidate.(type) {
		case values.Value:
			v, err := c.convertValue(x, depth)
			return v, true, err
		case untypedMap:
			v, err := c.convertUntypedMap(x, depth, candidate)
			return v, true, err
		case encoding.TextMarshaler:
			text, err := x.MarshalText()
			if err != nil {
				return nil, true, err
			}
			return values.String(string(text)), true, nil
		case fmt.Stringer:
			// integer kinds with a String method are enumerations, rendered by name
			if isIntegerKind(val.Kind()) {
				return values.String(x.String()), true, nil
			}
		}
	}

	return nil, false, nil
}

// interfaceCandidates returns val and, if addressable, its address so pointer receiver methods are found.
func interfaceCandidates(val reflect.Value) []any {
	candidates := []any{val.Interface()}
	if val.CanAddr() && val.Addr().CanInterface() {
		candidates = append(candidates, val.Addr().Interface())
	}
	return candidates
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func opaque(val reflect.Value) values.Value {
	if val.CanInterface() {
		return values.Opaque{Value: val.Interface()}
	}
	return values.Opaque{}
}

func convertNumber(n json.Number) (values.Value, error) {
	if i, err := n.Int64(); err == nil {
		return values.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, ErrUnsupportedScalarType.Wrapf("invalid number %q", n.String())
	}
	return values.Float(f), nil
}

func (c *canonicalizer) convertValue(v values.Value, depth int) (values.Value, error) {
	switch v := v.(type) {
	case *values.List:
		if v == nil {
			return values.Null{}, nil
		}
		id, ok := identity{typ: reflect.TypeOf(v), ptr: reflect.ValueOf(v).Pointer()}, true
		if shared, found := c.lookup(id, ok); found {
			return shared, nil
		}
		d, err := c.enter(depth)
		if err != nil {
			return nil, err
		}
		out := values.NewList()
		for _, item := range v.Items {
			cv, err := c.convertItem(item, d)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, cv)
		}
		c.remember(id, ok, out)
		return out, nil
	case *values.Map:
		if v == nil {
			return values.Null{}, nil
		}
		id, ok := identity{typ: reflect.TypeOf(v), ptr: reflect.ValueOf(v).Pointer()}, true
		if shared, found := c.lookup(id, ok); found {
			return shared, nil
		}
		d, err := c.enter(depth)
		if err != nil {
			return nil, err
		}
		out := values.NewMap(v.Len())
		for k, item := range v.Entries.All() {
			cv, err := c.convertItem(item, d)
			if err != nil {
				return nil, err
			}
			out.Set(k, cv)
		}
		c.remember(id, ok, out)
		return out, nil
	default:
		return v, nil
	}
}

func (c *canonicalizer) convertItem(v values.Value, depth int) (values.Value, error) {
	if v == nil {
		return values.Null{}, nil
	}
	return c.convertValue(v, depth)
}

func (c *canonicalizer) convertList(val reflect.Value, depth int, via uintptr) (values.Value, error) {
	var id identity
	ok := false
	switch {
	case val.Kind() == reflect.Slice && val.Len() > 0:
		id, ok = identity{typ: val.Type(), ptr: val.Pointer(), len: val.Len()}, true
	case val.Kind() == reflect.Array && via != 0:
		id, ok = identity{typ: val.Type(), ptr: via}, true
	}
	if shared, found := c.lookup(id, ok); found {
		return shared, nil
	}

	d, err := c.enter(depth)
	if err != nil {
		return nil, err
	}

	out := &values.List{Items: make([]values.Value, 0, val.Len())}
	for i := range val.Len() {
		item, err := c.convert(val.Index(i), d)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item)
	}

	c.remember(id, ok, out)
	return out, nil
}

func (c *canonicalizer) convertMap(val reflect.Value, depth int) (values.Value, error) {
	var id identity
	ok := false
	if !val.IsNil() {
		id, ok = identity{typ: val.Type(), ptr: val.Pointer()}, true
	}
	if shared, found := c.lookup(id, ok); found {
		return shared, nil
	}

	d, err := c.enter(depth)
	if err != nil {
		return nil, err
	}

	type entry struct {
		key   string
		value reflect.Value
	}
	entries := make([]entry, 0, val.Len())
	it := val.MapRange()
	for it.Next() {
		entries = append(entries, entry{key: stringifyKey(it.Key()), value: it.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	out := values.NewMap(len(entries))
	for _, e := range entries {
		if out.Entries.Has(e.key) {
			return nil, ErrDuplicateKey.Wrapf("several keys render as %q", e.key)
		}
		v, err := c.convert(e.value, d)
		if err != nil {
			return nil, err
		}
		out.Set(e.key, v)
	}

	c.remember(id, ok, out)
	return out, nil
}

func (c *canonicalizer) convertUntypedMap(m untypedMap, depth int, holder any) (values.Value, error) {
	var id identity
	hv := reflect.ValueOf(holder)
	ok := hv.Kind() == reflect.Pointer
	if ok {
		id = identity{typ: hv.Type(), ptr: hv.Pointer()}
	}
	if shared, found := c.lookup(id, ok); found {
		return shared, nil
	}

	d, err := c.enter(depth)
	if err != nil {
		return nil, err
	}

	out := values.NewMap(0)
	for k, item := range m.AllUntyped() {
		key := stringifyKey(reflect.ValueOf(k))
		if out.Entries.Has(key) {
			return nil, ErrDuplicateKey.Wrapf("several keys render as %q", key)
		}
		v, err := c.convert(reflect.ValueOf(item), d)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}

	c.remember(id, ok, out)
	return out, nil
}

func stringifyKey(key reflect.Value) string {
	for key.IsValid() && key.Kind() == reflect.Interface {
		if key.IsNil() {
			return "null"
		}
		key = key.Elem()
	}
	if !key.IsValid() {
		return "null"
	}
	if key.CanInterface() {
		if tm, ok := key.Interface().(encoding.TextMarshaler); ok {
			if text, err := tm.MarshalText(); err == nil {
				return string(text)
			}
		}
		return fmt.Sprint(key.Interface())
	}
	return fmt.Sprint(key)
}

func (c *canonicalizer) convertStruct(val reflect.Value, depth int, via uintptr) (values.Value, error) {
	id, ok := identity{typ: val.Type(), ptr: via}, via != 0
	if shared, found := c.lookup(id, ok); found {
		return shared, nil
	}

	d, err := c.enter(depth)
	if err != nil {
		return nil, err
	}

	out := values.NewMap(val.NumField())
	if err := c.addFields(out, val, d); err != nil {
		return nil, err
	}

	c.remember(id, ok, out)
	return out, nil
}

// addFields adds the exported fields of val to out, flattening inline and embedded structs.
func (c *canonicalizer) addFields(out *values.Map, val reflect.Value, depth int) error {
	typ := val.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		opts := parseFieldTag(field)
		if opts.skip {
			continue
		}

		fv := val.Field(i)

		if opts.inline {
			for fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					break
				}
				fv = fv.Elem()
			}
			switch fv.Kind() {
			case reflect.Struct:
				d, err := c.enter(depth)
				if err != nil {
					return err
				}
				if err := c.addFields(out, fv, d); err != nil {
					return err
				}
				continue
			case reflect.Map:
				inlined, err := c.convertMap(fv, depth-1)
				if err != nil {
					return err
				}
				if m, isMap := inlined.(*values.Map); isMap {
					for k, v := range m.Entries.All() {
						out.Set(k, v)
					}
				}
				continue
			case reflect.Pointer:
				continue
			}
		}

		if !field.IsExported() {
			continue
		}
		if opts.omitEmpty && fv.IsZero() {
			continue
		}

		v, err := c.convert(fv, depth)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		out.Set(opts.name, v)
	}
	return nil
}

type fieldOptions struct {
	name      string
	skip      bool
	omitEmpty bool
	inline    bool
}

// parseFieldTag reads the yaml struct tag. Untagged embedded structs are inlined.
func parseFieldTag(field reflect.StructField) fieldOptions {
	tag := field.Tag.Get("yaml")
	if tag == "-" {
		return fieldOptions{skip: true}
	}

	name, flags, _ := strings.Cut(tag, ",")
	opts := fieldOptions{name: name}
	for flag := range strings.SplitSeq(flags, ",") {
		switch flag {
		case "omitempty":
			opts.omitEmpty = true
		case "inline":
			opts.inline = true
		}
	}

	if field.Anonymous && name == "" {
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			opts.inline = true
		}
	}

	if !opts.inline && !field.IsExported() {
		opts.skip = true
	}
	if opts.name == "" {
		opts.name = field.Name
	}
	return opts
}
