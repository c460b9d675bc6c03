// Package notifier fans out new-article e-mails to every subscriber.
//
// One send is issued per subscriber, concurrently, throttled by a token
// bucket. The dispatcher waits for every send to settle and reports only
// aggregate counts: a failed send never cancels or retries the others, and
// never fails the publish that triggered it.
package notifier
