package testutils

import "github.com/securejs/jssec"

// SampleCodeJ102 - document.write with dynamic content
var SampleCodeJ102 = []CodeSample{
	{[]string{`
var params = new URLSearchParams(location.search);
document.write("<h1>" + params.get("title") + "</h1>");
`}, 1, jssec.NewConfig()},
	{[]string{`
document.write("<hr>");
`}, 0, jssec.NewConfig()},
	{[]string{`
document.writeln(banner);
`}, 1, jssec.NewConfig()},
	{[]string{`
document["write"](template);
`}, 1, jssec.NewConfig()},
	{[]string{`
function render(document) {
  document.write(user);
}
`}, 0, jssec.NewConfig()},
}
