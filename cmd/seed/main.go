package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/clock"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/handler"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository/local"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type store interface {
	InsertDataset(ctx context.Context, ds *repository.Dataset) error
	RolesFor(ctx context.Context, orgID string) ([]domain.Role, error)
	AreasFor(ctx context.Context, orgID, locationID string) ([]domain.Area, error)
	EmployeesFor(ctx context.Context, orgID, locationID string) ([]domain.Employee, error)
}

func main() {
	var op int
	var n int
	var orgID string
	var locationID string
	var week string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入演示数据, 2: 插入随机员工, 3: 插入一周的随机班次, 4: 插入随机请假)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量，操作 3 中表示每个区域每天的班次数量")
	flag.StringVar(&orgID, "org", seed.DemoOrgID, "组织 ID")
	flag.StringVar(&locationID, "location", "loc-1", "地点 ID，操作 3 和 4 为空时表示所有地点")
	flag.StringVar(&week, "week", "", "数据所在的一周中的任意一天 (yyyy-MM-dd)，默认为本周")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	day := time.Now()
	if week != "" {
		day, err = time.Parse(time.DateOnly, week)
		if err != nil {
			logger.Error("日期必须是 yyyy-MM-dd 格式", slog.String("week", week))
			os.Exit(1)
		}
	}
	from, _ := clock.WeekBounds(day)
	weekStart, _ := time.Parse(time.DateOnly, from)

	s, closer, err := openStore(cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx := context.Background()

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		passwordHash, err := seed.HashPassword(cfg.Seed.User.Password)
		if err != nil {
			slog.Error("无法生成密码哈希", slog.String("error", err.Error()))
			return
		}

		ds := seed.Demo(passwordHash, weekStart)
		if err := s.InsertDataset(ctx, ds); err != nil {
			slog.Error("无法插入演示数据", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入演示数据成功", slog.String("week", from), slog.Int("shifts", len(ds.Shifts)))

		// 登录由外部服务负责，这里直接为演示账号签发令牌方便调试
		for _, user := range ds.Users {
			token, err := handler.IssueToken(cfg.JWT.Secret, &user, 7*24*time.Hour)
			if err != nil {
				slog.Error("无法签发令牌", slog.String("user", user.ID), slog.String("error", err.Error()))
				continue
			}
			slog.Info("演示账号令牌", slog.String("email", user.Email), slog.String("role", string(user.Role)), slog.String("token", token))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		roles, err := s.RolesFor(ctx, orgID)
		if err != nil {
			slog.Error("无法获取岗位", slog.String("error", err.Error()))
			return
		}
		if len(roles) == 0 {
			slog.Error("组织中没有岗位，请先插入演示数据", slog.String("org", orgID))
			return
		}

		passwordHash, err := seed.HashPassword(cfg.Seed.User.Password)
		if err != nil {
			slog.Error("无法生成密码哈希", slog.String("error", err.Error()))
			return
		}

		ds := seed.RandomEmployees(orgID, locationID, roles, n, passwordHash, cfg.Email.UserDomain)
		if err := s.InsertDataset(ctx, ds); err != nil {
			slog.Error("无法插入员工", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入员工成功", slog.Int("count", len(ds.Employees)))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
			return
		}

		areas, err := s.AreasFor(ctx, orgID, locationID)
		if err != nil {
			slog.Error("无法获取区域", slog.String("error", err.Error()))
			return
		}
		employees, err := s.EmployeesFor(ctx, orgID, locationID)
		if err != nil {
			slog.Error("无法获取员工", slog.String("error", err.Error()))
			return
		}

		ds := seed.RandomWeek(orgID, areas, employees, weekStart, n)
		if err := s.InsertDataset(ctx, ds); err != nil {
			slog.Error("无法插入班次", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入班次成功", slog.Int("shifts", len(ds.Shifts)), slog.Int("assignments", len(ds.Assignments)))
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的请假数量")
			return
		}

		employees, err := s.EmployeesFor(ctx, orgID, locationID)
		if err != nil {
			slog.Error("无法获取员工", slog.String("error", err.Error()))
			return
		}

		ds := seed.RandomTimeOff(orgID, employees, weekStart, n)
		if err := s.InsertDataset(ctx, ds); err != nil {
			slog.Error("无法插入请假", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入请假成功", slog.Int("count", len(ds.TimeOff)))
	default:
		slog.Error("指定的操作非法")
	}
}

func openStore(cfg *config.Config) (store, io.Closer, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		s, err := local.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "postgres":
		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		if err := dbpool.PingContext(ctx); err != nil {
			_ = dbpool.Close()
			return nil, nil, err
		}
		return repository.NewRepository(cfg, dbpool), dbpool, nil
	default:
		return nil, nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}
}
