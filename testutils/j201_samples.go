package testutils

import "github.com/securejs/jssec"

// SampleCodeJ201 - prototype-polluting merge functions
var SampleCodeJ201 = []CodeSample{
	{[]string{`
function extend(dst, src) {
  for (var k in src) {
    dst[k] = src[k];
  }
  return dst;
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function extend(dst, src) {
  for (var k in src) {
    if (k === "__proto__" || k === "constructor") {
      continue;
    }
    dst[k] = src[k];
  }
  return dst;
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function merge(dst, src) {
  for (var k in src) {
    if (dst.hasOwnProperty(k)) {
      dst[k] = src[k];
    }
  }
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function merge(dst, src) {
  for (var k in src) {
    if (src.hasOwnProperty(k)) {
      dst[k] = src[k];
    }
  }
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function toMap(src) {
  var dst = Object.create(null);
  for (var k in src) {
    dst[k] = src[k];
  }
  return dst;
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function toMap(src, bare) {
  var dst = bare ? {} : Object.create(null);
  for (var k in src) {
    dst[k] = src[k];
  }
  return dst;
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function merge(d, s) {
  for (k in s) {
    if (typeof s[k] === "object") {
      merge(d[k], s[k]);
    } else {
      d[k] = s[k];
    }
  }
  return d;
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function assign(target, source) {
  Object.keys(source).forEach(function (key) {
    target[key] = source[key];
  });
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function copyInto(dst, src) {
  var names = Object.keys(src);
  for (var i = 0; i < names.length; i++) {
    dst[names[i]] = src[names[i]];
  }
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function safeAssign(dst, src) {
  var banned = ["__proto__", "constructor", "prototype"];
  for (var k in src) {
    if (banned.includes(k)) {
      continue;
    }
    dst[k] = src[k];
  }
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function partialGuard(dst, src) {
  for (var k in src) {
    if (k === "__proto__") {
      continue;
    }
    dst[k] = src[k];
  }
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function rewrite(obj) {
  for (var k in obj) {
    obj[k] = String(obj[k]);
  }
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function label(dst, src) {
  for (var k in src) {
    dst[k] = k;
  }
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function mergeDates(dst, src) {
  for (var k in src) {
    if (src[k] instanceof Date) {
      dst[k] = src[k];
    }
  }
}
`}, 1, jssec.NewConfig()},
	{[]string{`
function looseGuard(dst, src) {
  for (var k in src) {
    if (k == "__proto__" || k == "constructor") continue;
    dst[k] = src[k];
  }
}
`}, 0, jssec.NewConfig()},
	{[]string{`
function mergeInto(dst, src, section) {
  for (var k in src) {
    dst[section][k] = src[k];
  }
}
`}, 1, jssec.NewConfig()},
}
