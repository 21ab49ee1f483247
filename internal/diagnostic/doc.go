// Package diagnostic turns raw capture failures into the messages users see.
//
// Every terminal error of a screenshot invocation passes through Format
// exactly once. The result has one of three shapes:
//
//	Screenshot timed out after <ms>ms: <message>
//	Network error: <message>
//	Failed to take screenshot: <message>
//
// Messages that already carry one of these prefixes are returned unchanged,
// so formatting is idempotent.
package diagnostic
