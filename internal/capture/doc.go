// Package capture takes a single screenshot of a URL and writes it to disk.
//
// The work is split in two:
//   - Renderer produces the encoded image bytes (ChromeRenderer drives
//     Chrome over the DevTools protocol via chromedp)
//   - Capturer resolves the output path and stores the image
//
// One Capture call is one attempt. Retrying is the caller's concern.
package capture
