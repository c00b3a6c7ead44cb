package sdk

import (
	"fmt"
	"strings"
)

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainContract AddressDomain = "contract"
	AddressDomainSystem   AddressDomain = "system"
)

type AddressType string

const (
	AddressTypeEVM      AddressType = "evm"
	AddressTypeKey      AddressType = "key"
	AddressTypeHive     AddressType = "hive"
	AddressTypeContract AddressType = "contract"
	AddressTypeSystem   AddressType = "system"
	AddressTypeUnknown  AddressType = "unknown"
)

// Address is the literal account id (like hive:alice or contract:dao).
type Address string

// ContractAddress builds the address a deployed module is known by.
// Example payload: sdk.ContractAddress("okinoko")
func ContractAddress(name string) Address {
	return Address("contract:" + name)
}

// String returns the literal representation of the address.
func (a Address) String() string {
	return string(a)
}

// Domain checks the prefix to tell user, contract and system accounts apart.
// Example payload: sdk.Address("contract:okinoko").Domain()
func (a Address) Domain() AddressDomain {
	switch {
	case strings.HasPrefix(string(a), "system:"):
		return AddressDomainSystem
	case strings.HasPrefix(string(a), "contract:"):
		return AddressDomainContract
	default:
		return AddressDomainUser
	}
}

// Type inspects the prefix to categorize the address.
// Example payload: sdk.Address("did:pkh:eip155:1:0xabc").Type()
func (a Address) Type() AddressType {
	s := string(a)
	switch {
	case strings.HasPrefix(s, "did:pkh:eip155"):
		return AddressTypeEVM
	case strings.HasPrefix(s, "did:key:"):
		return AddressTypeKey
	case strings.HasPrefix(s, "hive:") && len(s) > len("hive:"):
		return AddressTypeHive
	case strings.HasPrefix(s, "contract:") && len(s) > len("contract:"):
		return AddressTypeContract
	case strings.HasPrefix(s, "system:") && len(s) > len("system:"):
		return AddressTypeSystem
	default:
		return AddressTypeUnknown
	}
}

// IsValid is a light sanity check, the chain did the real signature work already.
func (a Address) IsValid() bool {
	return a.Type() != AddressTypeUnknown
}

// Validate returns an error naming the address when it is not usable.
func (a Address) Validate() error {
	if !a.IsValid() {
		return fmt.Errorf("invalid address %q", string(a))
	}
	return nil
}
