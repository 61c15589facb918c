/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent      = "solarchallenge-drawbot/0.3.0 (+https://github.com/mikeb26/solarchallenge-drawbot)"
	WebCacheBucket = "bopmatic-solarchallenge-drawbot-prod-webcache"
	DrawBucket     = "bopmatic-solarchallenge-drawbot-prod-draws"
)
