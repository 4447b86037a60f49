package testutils

import "github.com/securejs/jssec"

var credentialsNoEntropy = func() jssec.Config {
	config := jssec.NewConfig()
	config.Set("J104", map[string]interface{}{
		"ignore_entropy": true,
	})
	return config
}()

var credentialsPattern = func() jssec.Config {
	config := jssec.NewConfig()
	config.Set("J104", map[string]interface{}{
		"ignore_entropy": true,
		"pattern":        "(?i)fish",
	})
	return config
}()

// SampleCodeJ104 - hardcoded credentials
var SampleCodeJ104 = []CodeSample{
	{[]string{`
var password = "f62e5bcda4fae4f82370da0c6f20697b8f8447ef";
login(password);
`}, 1, jssec.NewConfig()},
	{[]string{`
var defaultPassword = "admin";
`}, 0, jssec.NewConfig()},
	{[]string{`
var defaultPassword = "admin";
`}, 1, credentialsNoEntropy},
	{[]string{`
var swordfish = "mTRy4zF0a8Qb2dei";
`}, 1, credentialsPattern},
	{[]string{`
var config = {
  apiToken: "A8201ccd6e10f4dc"
};
`}, 1, jssec.NewConfig()},
	{[]string{`
if (input === "3e4fae4f82370da0") {
  grantAccess();
}
`}, 0, jssec.NewConfig()},
	{[]string{`
if (password === "3e4fae4f82370da0") {
  grantAccess();
}
`}, 1, jssec.NewConfig()},
	{[]string{`
settings.secret = "ee10f4dcc6f20697b8f";
`}, 1, jssec.NewConfig()},
	{[]string{`
var label = "Enter your password:";
`}, 0, jssec.NewConfig()},
}
