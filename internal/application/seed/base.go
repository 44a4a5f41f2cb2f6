package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

type baseLocation struct {
	city    string
	address string
	// rents of Apartment 1..8; the first five are let
	rents [8]int64
	beds  [8]int
	// lease rent of each let apartment
	leaseRents [5]int64
}

var baseLocations = []baseLocation{
	{"Bristol", "12 Broadmead, Bristol, BS2 ZPK",
		[8]int64{850, 1050, 1350, 1100, 900, 1000, 820, 1400}, [8]int{1, 2, 3, 2, 1, 2, 1, 3},
		[5]int64{850, 750, 1100, 900, 700}},
	{"Cardiff", "15 Tredegar St, Cardiff, CF5Z 6GP",
		[8]int64{700, 850, 1100, 900, 750, 830, 680, 1150}, [8]int{1, 2, 3, 2, 1, 2, 1, 3},
		[5]int64{780, 680, 1000, 820, 650}},
	{"London", "18 Rupert St, London, EC1A 6IQ",
		[8]int64{1300, 1700, 2200, 1800, 1400, 1650, 1250, 2300}, [8]int{1, 2, 3, 2, 1, 2, 1, 3},
		[5]int64{1500, 1300, 2000, 1700, 1200}},
	{"Manchester", "23 Corporation St, Manchester, M3T 3AM",
		[8]int64{800, 950, 1200, 1000, 850, 920, 780, 1250}, [8]int{1, 2, 3, 2, 1, 2, 1, 3},
		[5]int64{900, 780, 1150, 950, 720}},
}

type baseTenant struct {
	name, ni, email, phone string
}

// five tenants per location, in baseLocations order
var baseTenants = []baseTenant{
	{"Alice Brown", "AB123456A", "alice.brown@demo.com", "07111111111"},
	{"James Wilson", "JW234567B", "james.wilson@demo.com", "07111111112"},
	{"Emily Carter", "EC345678C", "emily.carter@demo.com", "07111111113"},
	{"Michael Green", "MG456789D", "michael.green@demo.com", "07111111114"},
	{"Sophie Taylor", "ST567890A", "sophie.taylor@demo.com", "07111111115"},
	{"Daniel Harris", "EH678901B", "daniel.harris@demo.com", "07222222221"},
	{"Olivia Martin", "OM789012C", "olivia.martin@demo.com", "07222222222"},
	{"Thomas Lewis", "TL890123D", "thomas.lewis@demo.com", "07222222223"},
	{"Lucy Walker", "LW901234A", "lucy.walker@demo.com", "07222222224"},
	{"Ben Scott", "BS012345B", "ben.scott@demo.com", "07222222225"},
	{"Harry King", "HK112233A", "harry.king@demo.com", "07333333331"},
	{"Amelia Wright", "AW223344B", "amelia.wright@demo.com", "07333333332"},
	{"Jack Turner", "JT334455C", "jack.turner@demo.com", "07333333333"},
	{"Isla Patel", "KP445566D", "isla.patel@demo.com", "07333333334"},
	{"Noah Ahmed", "NA556677A", "noah.ahmed@demo.com", "07333333335"},
	{"Liam ONeill", "LP667788B", "liam.oneill@demo.com", "07444444441"},
	{"Mia Roberts", "MR778899C", "mia.roberts@demo.com", "07444444442"},
	{"Ethan Wood", "EW889900D", "ethan.wood@demo.com", "07444444443"},
	{"Grace Hall", "GH990011A", "grace.hall@demo.com", "07444444444"},
	{"Oliver Price", "OP001122B", "oliver.price@demo.com", "07444444445"},
}

// Staff accounts. Location-scoped roles are created once per city as
// "<city>_<role>"; manager, finance and guest see every location.
const (
	ManagerUsername = "manager"
	ManagerPassword = "paragon1"
)

var globalUsers = []struct {
	username, password string
	role               identity.Role
}{
	{ManagerUsername, ManagerPassword, identity.RoleManager},
	{"finance", "finance1", identity.RoleFinance},
	{"guest", "guest1", identity.RoleGuest},
}

var cityUsers = []struct {
	suffix, password string
	role             identity.Role
}{
	{"admin", "admin1", identity.RoleAdmin},
	{"frontdesk", "front1", identity.RoleFrontDesk},
	{"maintenance", "maint1", identity.RoleMaintenance},
}

// BaseCities lists the cities the base data creates, in order
func BaseCities() []string {
	out := make([]string, len(baseLocations))
	for i, l := range baseLocations {
		out[i] = l.city
	}
	return out
}

// loadBase creates the base data when the store holds no location yet.
// It reports whether anything was written.
func loadBase(ctx context.Context, repos Repositories, today time.Time) (bool, error) {
	existing, err := repos.Locations().FindAll(ctx, shared.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return false, err
	}
	if existing.Total > 0 {
		return false, nil
	}

	tenantIdx := 0
	for li, bl := range baseLocations {
		location, err := property.NewLocation(bl.city, bl.address)
		if err != nil {
			return false, err
		}
		if err := repos.Locations().Create(ctx, location); err != nil {
			return false, fmt.Errorf("create location %s: %w", bl.city, err)
		}

		for i := range bl.rents {
			apartment, err := property.NewApartment(location.ID, fmt.Sprintf("Apartment %d", i+1),
				bl.beds[i], decimal.NewFromInt(bl.rents[i]))
			if err != nil {
				return false, err
			}
			apartment.Occupied = i < len(bl.leaseRents)
			if err := repos.Apartments().Create(ctx, apartment); err != nil {
				return false, fmt.Errorf("create apartment: %w", err)
			}
			if !apartment.Occupied {
				continue
			}

			bt := baseTenants[tenantIdx]
			tenantIdx++
			tenant := &tenancy.Tenant{Name: bt.name, NINumber: bt.ni, Email: bt.email, Phone: bt.phone,
				RightToRent: true, CreditCheck: tenancy.CreditCheckPassed}
			tenant.Normalize()
			if err := tenant.Validate(today); err != nil {
				return false, fmt.Errorf("tenant %s: %w", bt.name, err)
			}
			if err := repos.Tenants().Create(ctx, tenant); err != nil {
				return false, fmt.Errorf("create tenant %s: %w", bt.name, err)
			}

			start := today.AddDate(0, -(li*3 + i + 1), 0)
			lease, err := tenancy.NewLease(tenant.ID, apartment.ID, start, start.AddDate(1, 0, 0),
				decimal.NewFromInt(bl.leaseRents[i]))
			if err != nil {
				return false, err
			}
			if err := repos.Leases().Create(ctx, lease); err != nil {
				return false, fmt.Errorf("create lease: %w", err)
			}
		}

		for _, cu := range cityUsers {
			id := location.ID
			username := fmt.Sprintf("%s_%s", bl.city, cu.suffix)
			if err := createUser(ctx, repos, username, cu.password, cu.role, &id); err != nil {
				return false, err
			}
		}
	}

	for _, gu := range globalUsers {
		if err := createUser(ctx, repos, gu.username, gu.password, gu.role, nil); err != nil {
			return false, err
		}
	}
	return true, nil
}

func createUser(ctx context.Context, repos Repositories, username, password string, role identity.Role, locationID *int64) error {
	user, err := identity.NewUser(username, password, role, locationID)
	if err != nil {
		return err
	}
	if err := repos.Users().Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", username, err)
	}
	return nil
}
