package clientdata

import "time"

// TTLGeocoding is the default lifetime of a cached address lookup.
// Street addresses rarely move; the cap keeps renamed or re-zoned areas from sticking forever.
const TTLGeocoding = 30 * 24 * time.Hour
