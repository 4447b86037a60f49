package jssec_test

import (
	"github.com/dop251/goja/ast"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securejs/jssec"
	"github.com/securejs/jssec/jsast"
	"github.com/securejs/jssec/testutils"
)

func countMatches(calls jssec.CallList, ctx *jssec.Context) int {
	matched := 0
	jsast.Inspect(ctx.Root.Program, func(n ast.Node) bool {
		if _, ok := n.(*ast.CallExpression); ok && calls.ContainsCallExpr(n, ctx) != nil {
			matched++
		}
		return true
	})
	return matched
}

var _ = Describe("call list", func() {
	var (
		calls jssec.CallList
	)
	BeforeEach(func() {
		calls = jssec.NewCallList()
	})

	It("should not return any matches when empty", func() {
		Expect(calls.Contains("foo", "bar")).Should(BeFalse())
	})

	It("should be possible to add a single call", func() {
		Expect(calls).Should(HaveLen(0))
		calls.Add("document", "write")
		Expect(calls).Should(HaveLen(1))

		expected := make(map[string]bool)
		expected["write"] = true
		actual := map[string]bool(calls["document"])
		Expect(actual).Should(Equal(expected))
	})

	It("should be possible to add multiple calls at once", func() {
		Expect(calls).Should(HaveLen(0))
		calls.AddAll("JSON", "parse", "stringify")

		expected := map[string]bool{
			"parse":     true,
			"stringify": true,
		}
		actual := map[string]bool(calls["JSON"])
		Expect(actual).Should(Equal(expected))
	})

	It("should not return a match if none are present", func() {
		calls.Add("document", "write")
		Expect(calls.Contains("JSON", "parse")).Should(BeFalse())
	})

	It("should match a call based on selector and ident", func() {
		calls.Add("document", "write")
		Expect(calls.Contains("document", "write")).Should(BeTrue())
	})

	It("should match a call expression", func() {
		ctx := testutils.CreateContext("test.js", `var data = location.hash;
document.write(data);
console.log(data);
`)
		calls.Add("document", "write")
		Expect(countMatches(calls, ctx)).Should(Equal(1))
	})

	It("should match a bare global call", func() {
		ctx := testutils.CreateContext("test.js", `eval("2 + 2");
`)
		calls.Add("", "eval")
		Expect(countMatches(calls, ctx)).Should(Equal(1))
	})

	It("should match a computed member call with a constant name", func() {
		ctx := testutils.CreateContext("test.js", `document["write"](location.hash);
`)
		calls.Add("document", "write")
		Expect(countMatches(calls, ctx)).Should(Equal(1))
	})

	It("should not match a call through a shadowing local", func() {
		ctx := testutils.CreateContext("test.js", `function render(document) {
  document.write("safe stub");
}
`)
		calls.Add("document", "write")
		Expect(countMatches(calls, ctx)).Should(Equal(0))
	})

	It("should match a dotted receiver chain", func() {
		ctx := testutils.CreateContext("test.js", `window.document.write(location.hash);
`)
		calls.Add("window.document", "write")
		Expect(countMatches(calls, ctx)).Should(Equal(1))
	})
})
