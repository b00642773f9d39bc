package view

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// The capture tag writes its body into a view block:
//
//	{% capture "sidebar" append %}...{% endcapture %}
//
// The mode is one of replace (default), append or prepend.
type captureNode struct {
	name    pongo2.IEvaluator
	mode    Mode
	wrapper *pongo2.NodeWrapper
}

func init() {
	if err := pongo2.RegisterTag("capture", parseCapture); err != nil {
		panic(err)
	}
}

func (n *captureNode) Execute(ctx *pongo2.ExecutionContext, _ pongo2.TemplateWriter) *pongo2.Error {
	v, ok := ctx.Public["view"].(*View)
	if !ok || v == nil {
		return ctx.Error("capture needs a view in the template context", nil)
	}
	name, perr := n.name.Evaluate(ctx)
	if perr != nil {
		return perr
	}

	blocks := v.Blocks()
	blocks.Start(name.String(), n.mode)
	perr = n.wrapper.Execute(ctx, blocks)
	if err := blocks.End(); err != nil && perr == nil {
		return ctx.OrigError(err, nil)
	}
	return perr
}

func parseCapture(doc *pongo2.Parser, _ *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node := &captureNode{mode: ModeReplace}

	name, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node.name = name

	if token := arguments.MatchType(pongo2.TokenIdentifier); token != nil {
		switch token.Val {
		case "replace":
		case "append":
			node.mode = ModeAppend
		case "prepend":
			node.mode = ModePrepend
		default:
			return nil, arguments.Error(fmt.Sprintf("unknown capture mode %q", token.Val), token)
		}
	}
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("malformed capture tag arguments", nil)
	}

	wrapper, endArgs, err := doc.WrapUntilTag("endcapture")
	if err != nil {
		return nil, err
	}
	if endArgs.Remaining() > 0 {
		return nil, endArgs.Error("endcapture takes no arguments", nil)
	}
	node.wrapper = wrapper
	return node, nil
}
