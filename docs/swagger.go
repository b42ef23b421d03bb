package docs

import "github.com/swaggo/swag"

// @title           Family Tasks API
// @version         1.0
// @description     API for managing hierarchical tasks shared within a family group

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration and login

// @tag.name Families
// @tag.description Family group and membership operations

// @tag.name Tasks
// @tag.description Task management operations

// Register swagger info
func SwaggerInfo() *swag.Spec {
	return swag.Instance
}
