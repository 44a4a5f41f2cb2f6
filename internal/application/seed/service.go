package seed

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/maintenance"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNoActiveLeases is returned when there is nobody to invoice
var ErrNoActiveLeases = shared.NewDomainError(shared.CodeInvalidState,
	"no active leases found; cannot distribute seed data across locations")

// MinInvoiceAmount is the floor of a generated invoice amount
var MinInvoiceAmount = decimal.NewFromInt(50)

var issues = []string{
	"Leaking tap in bathroom",
	"Dishwasher not draining",
	"Heating not working",
	"Boiler pressure keeps dropping",
	"Blocked toilet",
	"Broken window lock",
	"Faulty socket in bedroom",
	"Fridge making a loud noise",
	"No hot water",
	"Damaged flooring in living room",
	"Leaking pipe under sink",
	"Smoke alarm beeping",
	"Oven not heating",
	"Front door lock jammed",
	"Shower drain blocked",
	"Flickering ceiling light",
	"Thermostat not responding",
	"Low water pressure",
	"Damp patch on ceiling",
	"Mould in bathroom",
	"Washing machine leaking",
	"Balcony door will not close",
}

// Options control one seeding run
type Options struct {
	// Reset deletes existing payments, invoices and maintenance requests first
	Reset bool
	// Base loads the base locations, apartments, tenants, leases and users
	// when the store has no location yet
	Base        bool
	Invoices    int
	Paid        int
	LateUnpaid  int
	Maintenance int
	Completed   int
	RandomSeed  int64
}

// DefaultOptions are the counts used when nothing else is asked for
func DefaultOptions() Options {
	return Options{
		Invoices:    50,
		Paid:        30,
		LateUnpaid:  15,
		Maintenance: 20,
		Completed:   10,
		RandomSeed:  42,
	}
}

// Result reports what a run wrote
type Result struct {
	BaseLoaded  bool  `json:"base_loaded"`
	Deleted     int64 `json:"deleted"`
	Invoices    int   `json:"invoices"`
	Paid        int   `json:"paid"`
	LateUnpaid  int   `json:"late_unpaid"`
	Upcoming    int   `json:"upcoming"`
	Maintenance int   `json:"maintenance"`
	Completed   int   `json:"completed"`
}

// Service generates demonstration data
type Service struct {
	uow    UnitOfWork
	logger *zap.Logger
	clock  shared.Clock
}

// NewService creates a seeding Service
func NewService(uow UnitOfWork, logger *zap.Logger, clock shared.Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &Service{uow: uow, logger: logger, clock: clock}
}

// leased is one active lease with the city of its apartment
type leased struct {
	tenantID    int64
	apartmentID int64
	rent        decimal.Decimal
	city        string
}

// Run seeds the store in a single transaction
func (s *Service) Run(ctx context.Context, scope identity.Scope, opts Options) (*Result, error) {
	for _, resource := range []identity.Resource{identity.ResourceInvoices, identity.ResourcePayments, identity.ResourceMaintenance} {
		if err := scope.Require(resource, identity.ActionCreate); err != nil {
			return nil, err
		}
	}
	if opts.Reset {
		if err := scope.Require(identity.ResourceInvoices, identity.ActionDelete); err != nil {
			return nil, err
		}
	}

	today := shared.Today(s.clock)
	rng := rand.New(rand.NewPCG(uint64(opts.RandomSeed), uint64(opts.RandomSeed)))
	result := &Result{}

	err := s.uow.Execute(ctx, func(repos Repositories) error {
		if opts.Reset {
			deleted, err := reset(ctx, repos)
			if err != nil {
				return err
			}
			result.Deleted = deleted
		}
		if opts.Base {
			loaded, err := loadBase(ctx, repos, today)
			if err != nil {
				return err
			}
			result.BaseLoaded = loaded
		}

		leases, err := activeLeases(ctx, repos)
		if err != nil {
			return err
		}
		if len(leases) == 0 && (opts.Invoices > 0 || opts.Maintenance > 0) {
			return ErrNoActiveLeases
		}
		if opts.Invoices > 0 {
			if err := seedFinance(ctx, repos, rng, today, leases, opts, result); err != nil {
				return err
			}
		}
		if opts.Maintenance > 0 {
			return seedMaintenance(ctx, repos, rng, today, leases, opts, result)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Seeding failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Seeding complete",
		zap.Bool("base_loaded", result.BaseLoaded),
		zap.Int64("deleted", result.Deleted),
		zap.Int("invoices", result.Invoices),
		zap.Int("paid", result.Paid),
		zap.Int("late_unpaid", result.LateUnpaid),
		zap.Int("maintenance", result.Maintenance))
	return result, nil
}

// reset removes generated rows. Payments reference invoices so they go first.
func reset(ctx context.Context, repos Repositories) (int64, error) {
	var total int64
	for _, del := range []func(context.Context) (int64, error){
		repos.Payments().DeleteAll,
		repos.Invoices().DeleteAll,
		repos.Maintenance().DeleteAll,
	} {
		n, err := del(ctx)
		if err != nil {
			return 0, fmt.Errorf("reset: %w", err)
		}
		total += n
	}
	return total, nil
}

// activeLeases lists active leases ordered by city, then tenant
func activeLeases(ctx context.Context, repos Repositories) ([]leased, error) {
	active := true
	page, err := repos.Leases().FindAll(ctx, tenancy.LeaseFilter{
		Filter: shared.Filter{PageSize: shared.Unpaged},
		Active: &active,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, nil
	}

	apartments, err := repos.Apartments().FindAll(ctx, property.ApartmentFilter{Filter: shared.Filter{PageSize: shared.Unpaged}})
	if err != nil {
		return nil, err
	}
	locations, err := repos.Locations().FindAll(ctx, shared.Filter{PageSize: shared.Unpaged})
	if err != nil {
		return nil, err
	}
	cityOf := make(map[int64]string, len(locations.Items))
	for _, l := range locations.Items {
		cityOf[l.ID] = l.City
	}
	apartmentCity := make(map[int64]string, len(apartments.Items))
	for _, a := range apartments.Items {
		apartmentCity[a.ID] = cityOf[a.LocationID]
	}

	out := make([]leased, 0, len(page.Items))
	for _, l := range page.Items {
		out = append(out, leased{
			tenantID:    l.TenantID,
			apartmentID: l.ApartmentID,
			rent:        l.MonthlyRent,
			city:        apartmentCity[l.ApartmentID],
		})
	}
	slices.SortStableFunc(out, func(a, b leased) int {
		return cmp.Or(cmp.Compare(a.city, b.city), cmp.Compare(a.tenantID, b.tenantID))
	})
	return out, nil
}

// roundRobin hands out tenants city by city, cycling tenants within a city
type roundRobin struct {
	cities []string
	byCity map[string][]leased
	next   map[string]int
}

func newRoundRobin(leases []leased) *roundRobin {
	rr := &roundRobin{byCity: make(map[string][]leased), next: make(map[string]int)}
	for _, l := range leases {
		if _, ok := rr.byCity[l.city]; !ok {
			rr.cities = append(rr.cities, l.city)
		}
		rr.byCity[l.city] = append(rr.byCity[l.city], l)
	}
	return rr
}

// pick returns the next tenant of the i-th city of a segment
func (rr *roundRobin) pick(i int) leased {
	city := rr.cities[i%len(rr.cities)]
	tenants := rr.byCity[city]
	l := tenants[rr.next[city]%len(tenants)]
	rr.next[city]++
	return l
}

// segmentCounts clamps the requested counts so paid plus late never exceed
// the invoice total, and raises late to one per city while headroom allows
func segmentCounts(opts Options, cities int) (paid, late, upcoming int) {
	total := max(0, opts.Invoices)
	paid = min(max(0, opts.Paid), total)
	headroom := total - paid
	late = min(max(0, opts.LateUnpaid), headroom)
	if late < cities {
		late = min(cities, headroom)
	}
	return paid, late, headroom - late
}

func days(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

func invoiceAmount(rng *rand.Rand, rent decimal.Decimal) decimal.Decimal {
	jitter := decimal.NewFromFloat(-25 + rng.Float64()*100)
	return decimal.Max(MinInvoiceAmount, rent.Add(jitter).Round(2))
}

func seedFinance(ctx context.Context, repos Repositories, rng *rand.Rand, today time.Time, leases []leased, opts Options, result *Result) error {
	rr := newRoundRobin(leases)
	paid, late, upcoming := segmentCounts(opts, len(rr.cities))

	create := func(l leased, due, issued time.Time) (*finance.Invoice, error) {
		invoice, err := finance.NewInvoice(l.tenantID, invoiceAmount(rng, l.rent), due, issued)
		if err != nil {
			return nil, err
		}
		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return nil, fmt.Errorf("seed invoice: %w", err)
		}
		return invoice, nil
	}

	for i := 0; i < paid; i++ {
		l := rr.pick(i)
		issued := today.AddDate(0, 0, -days(rng, 0, 120))
		due := issued.AddDate(0, 0, 7*days(rng, 1, 4))
		invoice, err := create(l, due, issued)
		if err != nil {
			return err
		}
		payment := &finance.Payment{
			InvoiceID:   invoice.ID,
			TenantID:    invoice.TenantID,
			PaymentDate: issued.AddDate(0, 0, days(rng, 0, 10)),
			Amount:      invoice.AmountDue,
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("seed payment: %w", err)
		}
		if err := repos.Invoices().MarkPaid(ctx, invoice.ID); err != nil {
			return err
		}
	}

	for i := 0; i < late; i++ {
		l := rr.pick(i)
		issued := today.AddDate(0, 0, -days(rng, 45, 160))
		due := today.AddDate(0, 0, -days(rng, 1, 45))
		if !due.After(issued) {
			issued = due.AddDate(0, 0, -days(rng, 7, 28))
		}
		if _, err := create(l, due, issued); err != nil {
			return err
		}
	}

	for i := 0; i < upcoming; i++ {
		l := rr.pick(i)
		issued := today.AddDate(0, 0, -days(rng, 0, 30))
		due := today.AddDate(0, 0, days(rng, 1, 45))
		if _, err := create(l, due, issued); err != nil {
			return err
		}
	}

	result.Invoices = paid + late + upcoming
	result.Paid = paid
	result.LateUnpaid = late
	result.Upcoming = upcoming
	return nil
}

func seedMaintenance(ctx context.Context, repos Repositories, rng *rand.Rand, today time.Time, leases []leased, opts Options, result *Result) error {
	total := max(0, opts.Maintenance)
	completed := min(max(0, opts.Completed), total)

	for i := 0; i < total; i++ {
		l := leases[i%len(leases)]
		done := i < completed
		reportedAgo := days(rng, 0, 90)
		priority := days(rng, 1, 5)

		request, err := maintenance.NewRequest(l.apartmentID, l.tenantID, issues[rng.IntN(len(issues))],
			priority, today.AddDate(0, 0, -reportedAgo))
		if err != nil {
			return err
		}

		switch {
		case done:
			scheduledAgo := 0
			if reportedAgo > 0 {
				scheduledAgo = days(rng, 1, reportedAgo)
			}
			scheduled := today.AddDate(0, 0, -scheduledAgo)
			request.ScheduledDate = &scheduled
			cost := decimal.NewFromFloat(50 + rng.Float64()*750).Round(2)
			if err := request.Complete(&cost); err != nil {
				return err
			}
		default:
			if rng.Float64() < 0.6 {
				scheduled := today.AddDate(0, 0, days(rng, 1, 30))
				request.ScheduledDate = &scheduled
			}
			if priority >= maintenance.HighPriority && rng.Float64() < 0.5 {
				estimate := decimal.NewFromFloat(100 + rng.Float64()*500).Round(2)
				request.Cost = &estimate
			}
		}

		if err := repos.Maintenance().Create(ctx, request); err != nil {
			return fmt.Errorf("seed maintenance request: %w", err)
		}
	}

	result.Maintenance = total
	result.Completed = completed
	return nil
}
