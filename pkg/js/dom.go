package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"louis14tables/pkg/html"
	"louis14tables/pkg/layout"
)

// domContext holds the bindings of a single execution. Element proxies are
// cached per node so the same JS object comes back for the same element.
type domContext struct {
	vm     *goja.Runtime
	doc    *html.Document
	layout map[*html.Node]*layout.TableResult
	cache  map[*html.Node]goja.Value
	tables map[*layout.TableResult]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document, results []*layout.TableResult) *domContext {
	ctx := &domContext{
		vm:     vm,
		doc:    doc,
		layout: make(map[*html.Node]*layout.TableResult),
		cache:  make(map[*html.Node]goja.Value),
		tables: make(map[*layout.TableResult]goja.Value),
	}
	var index func([]*layout.TableResult)
	index = func(rs []*layout.TableResult) {
		for _, r := range rs {
			if r.Table.Node != nil {
				ctx.layout[r.Table.Node] = r
			}
			index(r.Nested)
		}
	}
	index(results)
	return ctx
}

// registerDocument sets up the read-only `document` global.
func registerDocument(ctx *domContext) {
	vm := ctx.vm
	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		node := getElementById(ctx.doc.Root, call.Arguments[0].String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(ctx.doc.Root.FindAll(strings.ToLower(call.Arguments[0].String())))
	})
	docObj.Set("compatMode", compatMode(ctx.doc))
	vm.Set("document", docObj)
}

func compatMode(doc *html.Document) string {
	if doc.Quirks {
		return "BackCompat"
	}
	return "CSS1Compat"
}

func getElementById(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		if val, ok := node.Attributes["id"]; ok && val == id {
			return node
		}
	}
	for _, child := range node.Children {
		if found := getElementById(child, id); found != nil {
			return found
		}
	}
	return nil
}

func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(items...)
}

func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// elementAccessor exposes an element to scripts. The tree is read-only:
// layout has already run by the time scripts see it.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "id", "className", "textContent",
	"getAttribute", "hasAttribute",
	"children", "parentElement", "layout",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm

	switch key {
	case "tagName":
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		id, _ := e.node.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(e.node.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := e.node.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "children":
		return e.ctx.elementArray(e.node.ChildElements())
	case "parentElement":
		p := e.node.Parent
		if p != nil && p.Type == html.ElementNode && p.TagName != "document" {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "layout":
		// Only laid out tables have one.
		if r, ok := e.ctx.layout[e.node]; ok {
			return e.ctx.tableObject(r)
		}
		return goja.Null()
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool { return false }

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }

// tableObject converts a layout result into a plain JS object.
func (ctx *domContext) tableObject(r *layout.TableResult) goja.Value {
	if v, ok := ctx.tables[r]; ok {
		return v
	}
	vm := ctx.vm
	obj := vm.NewObject()
	ctx.tables[r] = obj

	id := ""
	if r.Table.Node != nil {
		id, _ = r.Table.Node.GetAttribute("id")
	}
	obj.Set("id", id)
	obj.Set("x", r.X)
	obj.Set("y", r.Y)
	obj.Set("width", r.Width)
	obj.Set("height", r.Height)
	obj.Set("minWidth", r.MinWidth)
	obj.Set("maxWidth", r.MaxWidth)
	obj.Set("columns", intArray(vm, r.ColumnWidths()))
	obj.Set("positions", intArray(vm, r.Positions))
	obj.Set("rows", intArray(vm, r.RowHeights))

	cells := make([]interface{}, len(r.Cells))
	for i, box := range r.Cells {
		c := vm.NewObject()
		c.Set("row", box.Cell.Row)
		c.Set("col", box.Cell.Col)
		c.Set("x", box.X)
		c.Set("y", box.Y)
		c.Set("width", box.Width)
		c.Set("height", box.Height)
		c.Set("minWidth", box.Cell.MinPreferred)
		c.Set("maxWidth", box.Cell.MaxPreferred)
		c.Set("lines", len(box.Lines))
		cells[i] = c
	}
	obj.Set("cells", vm.NewArray(cells...))

	nested := make([]interface{}, len(r.Nested))
	for i, n := range r.Nested {
		nested[i] = ctx.tableObject(n)
	}
	obj.Set("nested", vm.NewArray(nested...))
	return obj
}

func (ctx *domContext) tableArray(results []*layout.TableResult) goja.Value {
	items := make([]interface{}, len(results))
	for i, r := range results {
		items[i] = ctx.tableObject(r)
	}
	return ctx.vm.NewArray(items...)
}

func intArray(vm *goja.Runtime, values []int) goja.Value {
	items := make([]interface{}, len(values))
	for i, v := range values {
		items[i] = v
	}
	return vm.NewArray(items...)
}

// describe renders an exported JS value for assertion messages.
func describe(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = describe(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return "<object>"
}
