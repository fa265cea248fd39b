package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	assignmentUsecases "github.com/fed-stew/authvital-sub001/internal/application/licenseassignment/usecases"
	poolUsecases "github.com/fed-stew/authvital-sub001/internal/application/licensepool/usecases"
	provisioningUsecases "github.com/fed-stew/authvital-sub001/internal/application/provisioning/usecases"
	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/shared/events"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/auth"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/config"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/notification"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/permission"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/repository"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/scheduler"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/webhook"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/handlers"
	"github.com/fed-stew/authvital-sub001/internal/interfaces/http/middleware"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

const rbacModelPath = "configs/rbac_model.conf"

// repositories holds all repository instances used by the engine.
// Types match the return types of the repository constructors.
type repositories struct {
	tenantRepo       tenant.Repository
	membershipRepo   tenant.MembershipRepository
	applicationRepo  catalog.ApplicationRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	subscriptionRepo licensing.SubscriptionRepository
	assignmentRepo   licensing.AssignmentRepository
	auditRepo        licensing.AuditLogRepository
	accessRepo       access.Repository
}

// allUseCases holds every application-layer use case the handlers depend on.
type allUseCases struct {
	grantLicense          *assignmentUsecases.GrantLicenseUseCase
	revokeLicense         *assignmentUsecases.RevokeLicenseUseCase
	changeLicenseType     *assignmentUsecases.ChangeLicenseTypeUseCase
	revokeAllUserLicenses *assignmentUsecases.RevokeAllUserLicensesUseCase
	bulkLicense           *assignmentUsecases.BulkLicenseUseCase
	checkLicense          *assignmentUsecases.CheckLicenseUseCase
	licenseQuery          *assignmentUsecases.LicenseQueryUseCase
	getAuditLog           *assignmentUsecases.GetAuditLogUseCase

	provisionSubscription *poolUsecases.ProvisionSubscriptionUseCase
	updateQuantity        *poolUsecases.UpdateQuantityUseCase
	cancelSubscription    *poolUsecases.CancelSubscriptionUseCase
	renewSubscription     *poolUsecases.RenewSubscriptionUseCase
	expireSubscription    *poolUsecases.ExpireSubscriptionUseCase
	expireSubscriptions   *poolUsecases.ExpireSubscriptionsUseCase
	reconcileAssigned     *poolUsecases.ReconcileAssignedCountUseCase
	getUsageOverview      *poolUsecases.GetUsageOverviewUseCase
	checkMemberAccess     *poolUsecases.CheckMemberAccessUseCase

	provisionForNewTenant *provisioningUsecases.ProvisionForNewTenantUseCase
	checkMemberLimit      *provisioningUsecases.CheckMemberLimitUseCase
}

// allHandlers holds the HTTP handler instances.
type allHandlers struct {
	license      *handlers.LicenseHandler
	pool         *handlers.PoolHandler
	access       *handlers.AccessHandler
	provisioning *handlers.ProvisioningHandler
	health       *handlers.HealthHandler
}

// Container wires infrastructure, repositories, use cases, handlers, and
// background services together, and provides Shutdown() for graceful
// termination.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	// Infrastructure services
	txManager     *db.TransactionManager
	jwtSvc        *auth.JWTService
	enforcer      *permission.Enforcer
	emitter       *webhook.RedisEmitter
	overviewCache *cache.RedisUsageOverviewCache
	notifier      *notification.SMTPNotifier
	directory     *directory.GormDirectory
	accessService *appaccess.Service
	eventEmitter  *assignmentUsecases.LicenseEventEmitter

	// Background services
	eventDispatcher *events.InMemoryEventDispatcher
	expiryScheduler *scheduler.ExpiryScheduler
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initUseCases()
	c.initHandlers()
	c.initBackgroundServices()

	return c, nil
}

// initInfrastructure initializes Redis, repositories, the auth and
// permission services, and the early middlewares.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.redis = initRedis(cfg, log)

	c.repos = &repositories{
		tenantRepo:       repository.NewTenantRepository(c.db, log),
		membershipRepo:   repository.NewMembershipRepository(c.db, log),
		applicationRepo:  repository.NewApplicationRepository(c.db, log),
		licenseTypeRepo:  repository.NewLicenseTypeRepository(c.db, log),
		subscriptionRepo: repository.NewSubscriptionRepository(c.db, log),
		assignmentRepo:   repository.NewAssignmentRepository(c.db, log),
		auditRepo:        repository.NewAuditLogRepository(c.db, log),
		accessRepo:       repository.NewAppAccessRepository(c.db, log),
	}

	c.txManager = db.NewTransactionManager(c.db)
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret)

	enforcer, err := permission.NewEnforcer(c.db, rbacModelPath, log)
	if err != nil {
		return err
	}
	c.enforcer = enforcer
	if err := permission.InitLicensingPermissions(enforcer.Raw(), log); err != nil {
		return err
	}

	c.emitter = webhook.NewRedisEmitter(c.redis, cfg.Webhook.Channel, log)

	overviewTTL := time.Duration(cfg.Licensing.UsageOverviewTTLSeconds) * time.Second
	c.overviewCache = cache.NewRedisUsageOverviewCache(c.redis, overviewTTL, log)

	c.notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
		Enabled:     cfg.Email.Enabled,
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	}, log)

	c.directory = directory.NewGormDirectory(c.db)

	c.eventDispatcher = events.NewInMemoryEventDispatcher(100, log)
	subscribeEventLoggers(c.eventDispatcher, log)
	if err := c.eventDispatcher.Start(); err != nil {
		return err
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	c.rateLimiter = middleware.NewRateLimiter(
		c.redis,
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalw("failed to connect to Redis", "error", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}

// subscribeEventLoggers attaches the in-process listeners for license
// lifecycle events. External consumers get the redis webhooks; these
// listeners give operators a synchronous audit trail in the logs.
func subscribeEventLoggers(dispatcher *events.InMemoryEventDispatcher, log logger.Interface) {
	for _, eventType := range []string{"license.assigned", "license.revoked", "license.changed", "tenant.app.granted"} {
		handler := events.NewSimpleEventHandler(eventType, func(event events.DomainEvent) error {
			log.Infow("domain event",
				"event_type", event.GetEventType(),
				"aggregate_id", event.GetAggregateID(),
				"occurred_at", event.GetTimestamp())
			return nil
		})
		if err := dispatcher.Subscribe(eventType, handler); err != nil {
			log.Warnw("failed to subscribe event logger", "event_type", eventType, "error", err)
		}
	}
}

// initUseCases builds the application layer on top of the repositories.
func (c *Container) initUseCases() {
	log := c.log
	r := c.repos

	c.accessService = appaccess.NewService(
		r.accessRepo, r.applicationRepo, r.tenantRepo, r.membershipRepo,
		c.emitter, c.directory, log,
	)

	c.eventEmitter = assignmentUsecases.NewLicenseEventEmitter(
		c.emitter, c.eventDispatcher, r.tenantRepo, r.applicationRepo, r.licenseTypeRepo,
		c.directory, log,
	)

	ucs := &allUseCases{}

	ucs.grantLicense = assignmentUsecases.NewGrantLicenseUseCase(
		r.assignmentRepo, r.subscriptionRepo, r.licenseTypeRepo, r.applicationRepo,
		r.membershipRepo, r.tenantRepo, r.auditRepo, c.accessService,
		c.txManager, c.overviewCache, c.eventEmitter, c.directory, c.notifier, log,
	)
	ucs.revokeLicense = assignmentUsecases.NewRevokeLicenseUseCase(
		r.assignmentRepo, r.subscriptionRepo, r.tenantRepo, r.auditRepo,
		c.accessService, c.txManager, c.overviewCache, c.eventEmitter, log,
	)
	ucs.changeLicenseType = assignmentUsecases.NewChangeLicenseTypeUseCase(
		r.assignmentRepo, r.subscriptionRepo, r.licenseTypeRepo, r.tenantRepo,
		r.auditRepo, c.txManager, c.overviewCache, c.eventEmitter, log,
	)
	ucs.revokeAllUserLicenses = assignmentUsecases.NewRevokeAllUserLicensesUseCase(
		r.assignmentRepo, r.subscriptionRepo, r.tenantRepo, r.auditRepo,
		c.accessService, c.txManager, c.overviewCache, c.eventEmitter, log,
	)
	ucs.bulkLicense = assignmentUsecases.NewBulkLicenseUseCase(ucs.grantLicense, ucs.revokeLicense, log)
	ucs.checkLicense = assignmentUsecases.NewCheckLicenseUseCase(r.assignmentRepo, r.licenseTypeRepo, log)
	ucs.licenseQuery = assignmentUsecases.NewLicenseQueryUseCase(
		r.assignmentRepo, r.subscriptionRepo, r.applicationRepo, r.licenseTypeRepo,
		r.membershipRepo, c.directory, log,
	)
	ucs.getAuditLog = assignmentUsecases.NewGetAuditLogUseCase(r.auditRepo, log)

	ucs.provisionSubscription = poolUsecases.NewProvisionSubscriptionUseCase(
		r.subscriptionRepo, r.applicationRepo, r.licenseTypeRepo, r.tenantRepo,
		c.emitter, c.eventDispatcher, c.overviewCache, log,
	)
	ucs.updateQuantity = poolUsecases.NewUpdateQuantityUseCase(
		r.subscriptionRepo, r.tenantRepo, c.overviewCache, log,
	)
	ucs.cancelSubscription = poolUsecases.NewCancelSubscriptionUseCase(r.subscriptionRepo, log)
	ucs.renewSubscription = poolUsecases.NewRenewSubscriptionUseCase(r.subscriptionRepo, log)
	ucs.expireSubscription = poolUsecases.NewExpireSubscriptionUseCase(
		r.subscriptionRepo, r.assignmentRepo, c.accessService, r.tenantRepo,
		c.txManager, c.overviewCache, log,
	)
	ucs.expireSubscriptions = poolUsecases.NewExpireSubscriptionsUseCase(
		r.subscriptionRepo, ucs.expireSubscription, log,
	)
	ucs.reconcileAssigned = poolUsecases.NewReconcileAssignedCountUseCase(
		r.subscriptionRepo, r.assignmentRepo, r.tenantRepo, c.overviewCache, log,
	)
	ucs.getUsageOverview = poolUsecases.NewGetUsageOverviewUseCase(
		r.subscriptionRepo, r.applicationRepo, r.licenseTypeRepo, r.tenantRepo,
		c.overviewCache, log,
	)
	ucs.checkMemberAccess = poolUsecases.NewCheckMemberAccessUseCase(
		r.subscriptionRepo, r.applicationRepo, r.licenseTypeRepo, r.membershipRepo, log,
	)

	ucs.provisionForNewTenant = provisioningUsecases.NewProvisionForNewTenantUseCase(
		ucs.provisionSubscription, ucs.grantLicense, c.accessService,
		r.applicationRepo, r.licenseTypeRepo, log,
	)
	ucs.checkMemberLimit = provisioningUsecases.NewCheckMemberLimitUseCase(
		r.subscriptionRepo, r.applicationRepo, r.licenseTypeRepo, r.membershipRepo, log,
	)

	c.ucs = ucs
}

// initHandlers builds the HTTP handler layer.
func (c *Container) initHandlers() {
	resolver := handlers.NewResolver(c.repos.tenantRepo, c.repos.applicationRepo, c.repos.licenseTypeRepo)

	c.hdlrs = &allHandlers{
		license: handlers.NewLicenseHandler(
			c.ucs.grantLicense, c.ucs.revokeLicense, c.ucs.changeLicenseType,
			c.ucs.bulkLicense, c.ucs.checkLicense, c.ucs.licenseQuery,
			resolver, c.log,
		),
		pool: handlers.NewPoolHandler(
			c.ucs.provisionSubscription, c.ucs.updateQuantity, c.ucs.cancelSubscription,
			c.ucs.renewSubscription, c.ucs.expireSubscription, c.ucs.reconcileAssigned,
			c.ucs.getUsageOverview, c.ucs.checkMemberAccess, c.ucs.getAuditLog,
			c.ucs.licenseQuery, resolver, c.log,
		),
		access:       handlers.NewAccessHandler(c.accessService, resolver, c.log),
		provisioning: handlers.NewProvisioningHandler(c.ucs.provisionForNewTenant, c.ucs.checkMemberLimit, resolver, c.log),
		health:       handlers.NewHealthHandler(c.db, c.redis),
	}
}

// initBackgroundServices starts the subscription expiry scheduler.
func (c *Container) initBackgroundServices() {
	interval := time.Duration(c.cfg.Licensing.ExpiryScanIntervalMinutes) * time.Minute
	c.expiryScheduler = scheduler.NewExpiryScheduler(c.ucs.expireSubscriptions, interval, c.log)
	c.expiryScheduler.Start(context.Background())
}

// GetEngine returns the Gin engine.
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Shutdown stops background services and closes external connections.
func (c *Container) Shutdown() {
	c.log.Infow("shutting down container")

	if c.expiryScheduler != nil {
		c.expiryScheduler.Stop()
	}

	if c.eventDispatcher != nil {
		if err := c.eventDispatcher.Stop(); err != nil {
			c.log.Warnw("failed to stop event dispatcher", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
