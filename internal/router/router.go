package router

import (
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/config"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/handler"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/infra"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/middleware"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/service"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)
	monedaRepo := repository.NewMonedaRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	productoSvc := service.NewProductoService(productoRepo, rdb)
	empresaSvc := service.NewEmpresaService(empresaRepo)
	monedaSvc := service.NewMonedaService(monedaRepo)
	documentoSvc := service.NewDocumentoService(
		documentoRepo, productoRepo, empresaRepo, monedaRepo,
		dispatcher, decimal.NewFromFloat(cfg.ImpuestoPct),
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc)
	empresasH := handler.NewEmpresasHandler(empresaSvc)
	monedasH := handler.NewMonedasHandler(monedaSvc)
	documentosH := handler.NewDocumentosHandler(documentoSvc)
	costosH := handler.NewConsultaCostosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, smtpCB))

	v1 := r.Group("/v1")
	{
		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.GET("/:id/historial-precios", productosH.ListarHistorial)

			prods.POST("/:id/componentes", productosH.CrearComponente)
			prods.GET("/:id/componentes", productosH.ListarComponentes)
			prods.DELETE("/:id/componentes/:componenteId", productosH.EliminarComponente)
		}

		// Read-only rolled-up cost (Redis cached)
		v1.GET("/costos/:id", costosH.GetCosto)

		empresas := v1.Group("/empresas")
		{
			empresas.POST("", empresasH.Crear)
			empresas.GET("", empresasH.Listar)
			empresas.GET("/:id", empresasH.ObtenerPorID)
			empresas.PUT("/:id", empresasH.Actualizar)
			empresas.DELETE("/:id", empresasH.Desactivar)
		}

		monedas := v1.Group("/monedas")
		{
			monedas.POST("", monedasH.Crear)
			monedas.GET("", monedasH.Listar)
		}

		docs := v1.Group("/documentos")
		{
			docs.POST("", documentosH.Crear)
			docs.GET("", documentosH.Listar)
			docs.GET("/:id", documentosH.ObtenerPorID)

			docs.POST("/:id/lineas", documentosH.AgregarLinea)
			docs.PUT("/:id/lineas/:lineaId", documentosH.ActualizarLinea)
			docs.DELETE("/:id/lineas/:lineaId", documentosH.EliminarLinea)

			docs.POST("/:id/emitir", documentosH.Emitir)
			docs.POST("/:id/estado", documentosH.CambiarEstado)
			docs.POST("/:id/convertir", documentosH.Convertir)
			docs.POST("/:id/enviar", documentosH.Enviar)
			docs.GET("/:id/pdf", documentosH.DescargarPDF)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
