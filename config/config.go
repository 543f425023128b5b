// Package config defines the small plain-struct parameters this core's
// constructors take, in the style of dagconfig.Params: a value threaded
// through New functions, not parsed from flags or env here (no
// CLI/config-file surface is in scope for this core).
package config

// Net identifies which network's genesis and chain parameters a
// ChainStore is operating under.
type Net string

// Supported networks, mirroring dagconfig's Mainnet/Testnet/Simnet/Devnet
// enumeration.
const (
	NetMain Net = "main"
	NetTest Net = "test"
	NetDev  Net = "dev"
)

// CacheSizes configures the entry counts of the in-process LRU caches
// fronting ChainStore's HEADER, EXT, and CELL columns.
type CacheSizes struct {
	Header int
	Ext    int
	Cell   int
}

// DefaultCacheSizes returns cache sizes suitable for a single-process
// node, matching the order of magnitude of the default lrucache.New(10000)
// call sites elsewhere in this stack.
func DefaultCacheSizes() CacheSizes {
	return CacheSizes{Header: 10000, Ext: 10000, Cell: 10000}
}

// Params bundles the configuration a ChainStore (and, indirectly, the
// providers and resolver built on top of it) is constructed with.
type Params struct {
	// DataDir is the directory the underlying key/value engine opens its
	// files under.
	DataDir string

	// Net names which network this store belongs to. It is carried for
	// callers only: store.New does not read it, and neither do the
	// cell/provider/resolver packages.
	Net Net

	// Cache configures the ChainStore's in-process read caches.
	Cache CacheSizes
}
