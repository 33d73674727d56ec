package profile

import (
	"fmt"
)

// MockDeviceInfoProvider implements DeviceInfoProvider for testing.
type MockDeviceInfoProvider struct {
	// Devices maps addresses to canned properties.
	Devices map[string]DeviceProperties

	// Err is returned from every call when set.
	Err error

	// Queried records the addresses asked about, in order.
	Queried []string
}

// NewMockDeviceInfoProvider creates an empty mock.
func NewMockDeviceInfoProvider() *MockDeviceInfoProvider {
	return &MockDeviceInfoProvider{
		Devices: make(map[string]DeviceProperties),
	}
}

// AddDevice registers canned properties for an address.
func (m *MockDeviceInfoProvider) AddDevice(address string, class uint, name string) {
	m.Devices[address] = DeviceProperties{Class: class, Name: name}
}

// DeviceProperties returns the canned properties for the address.
func (m *MockDeviceInfoProvider) DeviceProperties(address string) (DeviceProperties, error) {
	m.Queried = append(m.Queried, address)
	if m.Err != nil {
		return DeviceProperties{}, m.Err
	}
	props, ok := m.Devices[address]
	if !ok {
		return DeviceProperties{}, fmt.Errorf("unknown device %q", address)
	}
	return props, nil
}
