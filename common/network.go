package common

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet: {},
	NetworkTestnet: {},
}

// chain ids distinguish ledgers that share the same operation format
var chainIds = map[Network]uint64{
	NetworkMainnet: 7770,
	NetworkTestnet: 7771,
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

func (n Network) ChainId() uint64 {
	return chainIds[n]
}

func (n Network) String() string {
	return string(n)
}
