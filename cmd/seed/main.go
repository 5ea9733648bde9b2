package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/seed"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-board/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type app struct {
	cfg    *config.Config
	dbpool *sql.DB
	repo   *repository.Repository
	root   *cobra.Command
}

func newApp() *app {
	a := &app{}

	a.root = &cobra.Command{
		Use:           "seed",
		Short:         "向数据库中插入测试数据",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.connect()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.dbpool != nil {
				a.dbpool.Close()
			}
		},
	}

	a.root.AddCommand(a.areasCmd())
	a.root.AddCommand(a.staffCmd())
	a.root.AddCommand(a.templatesCmd())
	a.root.AddCommand(a.rosterCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.adminCmd())

	return a
}

func (a *app) connect() error {
	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("无法读取配置文件: %w", err)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("无法创建数据库连接池: %w", err)
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return fmt.Errorf("无法连接到数据库: %w", err)
	}

	a.cfg = cfg
	a.dbpool = dbpool
	a.repo = repository.NewRepository(cfg, dbpool)
	return nil
}

func (a *app) areasCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "areas",
		Short: "插入随机区域",
		RunE: func(_ *cobra.Command, _ []string) error {
			if n <= 0 {
				return fmt.Errorf("请输入合法的区域数量")
			}

			existing, err := a.repo.ListAreas()
			if err != nil {
				return err
			}

			cnt := 0
			for i := 0; i < n; i++ {
				if err := a.repo.CreateArea(utils.GenerateRandomArea(len(existing) + i)); err != nil {
					slog.Error("无法插入区域", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}

			slog.Info("插入区域成功", slog.Int("count", cnt))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 3, "要插入的区域数量")

	return cmd
}

func (a *app) staffCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "staff",
		Short: "插入随机员工，并随机分配到已有的区域",
		RunE: func(_ *cobra.Command, _ []string) error {
			if n <= 0 {
				return fmt.Errorf("请输入合法的员工数量")
			}

			areas, err := a.repo.ListAreas()
			if err != nil {
				return err
			}

			cnt := 0
			for i := 0; i < n; i++ {
				if err := a.repo.CreateStaff(utils.GenerateRandomStaff(areas)); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}

			slog.Info("插入员工成功", slog.Int("count", cnt))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 10, "要插入的员工数量")

	return cmd
}

func (a *app) templatesCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "插入随机班次模板",
		RunE: func(_ *cobra.Command, _ []string) error {
			if n <= 0 {
				return fmt.Errorf("请输入合法的班次模板数量")
			}

			existing, err := a.repo.ListShiftTemplates()
			if err != nil {
				return err
			}

			cnt := 0
			for i := 0; i < n; i++ {
				st := utils.GenerateRandomShiftTemplate(int32(len(existing) + i))
				if err := utils.ValidateShiftTemplate(st); err != nil {
					slog.Error("生成的班次模板不合法", slog.String("error", err.Error()))
					continue
				}
				if err := a.repo.CreateShiftTemplate(st); err != nil {
					slog.Error("无法插入班次模板", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}

			slog.Info("插入班次模板成功", slog.Int("count", cnt))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 4, "要插入的班次模板数量")

	return cmd
}

func (a *app) rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster <csv 文件>",
		Short: "从 CSV 导入员工花名册",
		Long: `从 CSV 导入员工花名册。

CSV 的表头为：姓名,职位,区域
一个员工属于多个区域时用顿号分隔，例如：李强,厨师,后厨、前厅`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("打开文件失败: %w", err)
			}
			defer file.Close()

			cnt, err := seed.ImportRoster(file, a.repo)
			if err != nil {
				return err
			}

			slog.Info("导入花名册成功", slog.Int("count", cnt))
			return nil
		},
	}
}

func (a *app) scheduleCmd() *cobra.Command {
	var (
		anchorDate string
		days       int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "为一段日期随机排班，已有的排班会被覆盖",
		RunE: func(_ *cobra.Command, _ []string) error {
			if days <= 0 || days > a.cfg.Schedule.MaxWindowSize {
				return fmt.Errorf("天数必须在 1 到 %d 之间", a.cfg.Schedule.MaxWindowSize)
			}

			anchor := time.Now()
			if anchorDate != "" {
				var err error
				if anchor, err = utils.ParseDate(anchorDate); err != nil {
					return err
				}
			}

			policy := scheduler.ClosedDayPolicy{
				Enabled: a.cfg.Schedule.ClosedDayEnabled,
				Weekday: time.Weekday(a.cfg.Schedule.ClosedWeekday),
			}
			filled, err := seed.FillSchedule(a.repo, anchor, days, policy)
			if err != nil {
				return err
			}

			slog.Info("插入排班成功", slog.Int("filled", filled))
			return nil
		},
	}
	cmd.Flags().StringVar(&anchorDate, "from", "", "开始日期 (YYYY-MM-DD)，默认为今天")
	cmd.Flags().IntVar(&days, "days", 7, "天数")

	return cmd
}

func (a *app) adminCmd() *cobra.Command {
	var fullName string

	cmd := &cobra.Command{
		Use:   "admin <用户名> <邮箱>",
		Short: "创建一个使用随机密码的管理员账号",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			password := utils.GenerateRandomPassword(16)
			passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			if fullName == "" {
				fullName = utils.GenerateRandomChineseName()
			}

			user := &domain.User{
				Username:     args[0],
				PasswordHash: string(passwordHash),
				FullName:     fullName,
				Email:        args[1],
				IsActive:     true,
			}
			if err := a.repo.CreateUser(user); err != nil {
				return fmt.Errorf("无法创建管理员: %w", err)
			}

			// 密码只显示这一次
			fmt.Printf("已创建管理员 %s，密码：%s\n", user.Username, password)
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "name", "", "管理员姓名，默认随机生成")

	return cmd
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newApp().root.Execute(); err != nil {
		logger.Error("执行失败", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
