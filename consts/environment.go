package consts

import (
	"fmt"
	"strings"
)

// Environment is a named deployment of the Walley Checkout service.
//
// BackendHost receives API calls, FrontendHost serves the checkout loader script.
type Environment struct {
	Name         string
	BackendHost  string
	FrontendHost string
}

var (
	Production = Environment{
		Name:         "production",
		BackendHost:  "https://api.checkout.walleypay.com",
		FrontendHost: "https://checkout.walleypay.com",
	}
	Test = Environment{
		Name:         "test",
		BackendHost:  "https://api.checkout.uat.walleydev.com",
		FrontendHost: "https://checkout.uat.walleydev.com",
	}
	// CI is Walley's continuous-integration deployment.
	CI = Environment{
		Name:         "ci",
		BackendHost:  "https://api.checkout.ci.walleydev.com",
		FrontendHost: "https://checkout.ci.walleydev.com",
	}
)

// Environments lists the predefined environments.
func Environments() []Environment {
	return []Environment{Production, Test, CI}
}

// ParseEnvironment resolves a name such as "production", "prod", "test", "uat"
// or "ci".
func ParseEnvironment(name string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "production", "prod":
		return Production, nil
	case "test", "uat":
		return Test, nil
	case "ci":
		return CI, nil
	default:
		return Environment{}, fmt.Errorf("unknown walley environment %q", name)
	}
}

// CustomEnvironment describes a non-standard deployment, typically a local stub.
func CustomEnvironment(name, backendHost, frontendHost string) Environment {
	return Environment{
		Name:         name,
		BackendHost:  strings.TrimRight(backendHost, "/"),
		FrontendHost: strings.TrimRight(frontendHost, "/"),
	}
}

func (e Environment) String() string {
	return e.Name
}
