package testutils

import "github.com/securejs/jssec"

// SampleCodeJ103 - dynamic content in HTML rendering sinks
var SampleCodeJ103 = []CodeSample{
	{[]string{`
var el = document.getElementById("greeting");
el.innerHTML = "<b>" + name + "</b>";
`}, 1, jssec.NewConfig()},
	{[]string{`
var el = document.getElementById("greeting");
el.innerHTML = "<b>static</b>";
`}, 0, jssec.NewConfig()},
	{[]string{`
container.outerHTML = widget.render();
`}, 1, jssec.NewConfig()},
	{[]string{`
list.insertAdjacentHTML("beforeend", fragment);
`}, 1, jssec.NewConfig()},
	{[]string{`
list.insertAdjacentHTML("beforeend", "<li>done</li>");
`}, 0, jssec.NewConfig()},
	{[]string{`
log.innerHTML += entry;
`}, 1, jssec.NewConfig()},
}
