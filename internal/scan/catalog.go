package scan

// SecurityRules flag hardcoded credentials and unsafe sinks.
var SecurityRules = []Rule{
	newRule("hardcoded-password", `password\s*=\s*["'][^"']+["']`, "Hardcoded password detected"),
	newRule("hardcoded-api-key", `api_key\s*=\s*["'][^"']+["']`, "Hardcoded API key detected"),
	newRule("hardcoded-secret", `secret\s*=\s*["'][^"']+["']`, "Hardcoded secret detected"),
	newRule("hardcoded-token", `token\s*=\s*["'][^"']+["']`, "Hardcoded token detected"),
	newRule("eval-call", `eval\s*\(`, "Use of eval() function - security risk"),
	newRule("exec-call", `exec\s*\(`, "Use of exec() function - security risk"),
	newRule("inner-html", `\.innerHTML\s*=`, "Direct innerHTML assignment - XSS risk"),
	newRule("document-write", `document\.write\s*\(`, "Use of document.write - XSS risk"),
}

// QualityRules flag leftover debug code and structural smells.
//
// large-function and deep-nesting only look at a bounded span of text and
// stop at the first closing brace, so they miss and over-report on real code.
var QualityRules = []Rule{
	newRule("console-log", `console\.log\s*\(`, "Console.log statement found - remove before production"),
	newRule("print-call", `print\s*\(`, "Print statement found - consider using proper logging"),
	newRule("debugger", `debugger;`, "Debugger statement found - remove before production"),
	newRule("todo-marker", `TODO|FIXME|HACK`, "TODO/FIXME/HACK comment found"),
	newRule("empty-catch", `\.catch\s*\(\s*\)`, "Empty catch block - handle errors properly"),
	newRule("large-function", `function\s+\w+\s*\([^)]*\)\s*\{[^}]{200,}`, "Large function detected - consider breaking down"),
	newRule("deep-nesting", `if\s*\([^)]+\)\s*\{[^}]*if\s*\([^)]+\)\s*\{[^}]*if`, "Deep nesting detected - consider refactoring"),
}

// FlutterRules flag Flutter widget anti-patterns. Evaluated only when a
// Dart file is part of the input.
var FlutterRules = []Rule{
	newRule("flutter-empty-setstate", `setState\s*\(\s*\(\s*\)\s*\{\s*\}\s*\)`, "Empty setState call"),
	newRule("flutter-large-build", `build\s*\([^)]*\)\s*\{[^}]{500,}`, "Large build method - consider extracting widgets"),
	newRule("flutter-nested-container", `Container\s*\(\s*child:\s*Container`, "Nested Container widgets - consider simplifying"),
	newRule("flutter-empty-column", `Column\s*\([^)]*children:\s*\[\s*\]`, "Empty Column widget"),
	newRule("flutter-empty-row", `Row\s*\([^)]*children:\s*\[\s*\]`, "Empty Row widget"),
	unguardedOfRule(),
}

func unguardedOfRule() Rule {
	r := newRule("flutter-unguarded-of", `\.of\(context\)`, "Missing null safety check for context")
	r.NotFollowedBy = "."
	return r
}

// FrameworkExt is the extension that enables FlutterRules.
const FrameworkExt = ".dart"

// CodeExts are the extensions the test coverage check treats as code.
var CodeExts = []string{".dart", ".js", ".ts", ".py", ".php"}

// SourceExts is the full-scan allow-list, in enumeration order.
var SourceExts = []string{".py", ".js", ".ts", ".jsx", ".tsx", ".dart", ".rb", ".php", ".java", ".kt"}

const missingTestsMessage = "Code changes detected but no test files modified. Consider adding tests."
