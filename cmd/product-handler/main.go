// product-handler resolves the product GraphQL fields as an AppSync direct
// Lambda resolver.
package main

import (
	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/internal/app"
)

func main() {
	app.ServeLambda(dynaroute.Product)
}
