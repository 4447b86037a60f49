package testutils

import "github.com/securejs/jssec"

// SampleCodeJ101 - dynamic code execution
var SampleCodeJ101 = []CodeSample{
	{[]string{`
function run(input) {
  eval(input);
}
run(location.hash.slice(1));
`}, 1, jssec.NewConfig()},
	{[]string{`
function safe() {
  eval("console.log('fixed')");
}
safe();
`}, 0, jssec.NewConfig()},
	{[]string{`
function makeHandler(body) {
  return new Function("event", body);
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function compile(body) {
  return Function(body);
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function schedule(cmd) {
  setTimeout("handle('" + cmd + "')", 100);
}
`}, 1, jssec.NewConfig()},
	{[]string{`
setTimeout(function () {
  tick();
}, 1000);
`}, 0, jssec.NewConfig()},
	{[]string{`
function evaluator(eval) {
  eval("2+2");
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function poll(endpoint) {
  var code = "fetchFrom('" + endpoint + "')";
  setInterval(code, 5000);
}
`}, 1, jssec.NewConfig()},
}
