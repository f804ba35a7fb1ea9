// Package dedupe provides the shared singleflight group used to
// deduplicate concurrent reward distributions. A KO, a timeout and a
// disconnect can race toward ending the same battle; keying the payout
// job by battle id guarantees only one distribution runs while the
// other callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// RewardGroup deduplicates reward distribution jobs keyed by battle id.
var RewardGroup singleflight.Group
