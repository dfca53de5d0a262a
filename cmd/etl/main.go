package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
	"github.com/user/filmsync/internal/config"
	"github.com/user/filmsync/internal/etl"
	"github.com/user/filmsync/internal/repository"
	"github.com/user/filmsync/internal/search"
	"github.com/user/filmsync/internal/state"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	// 并发初始化两端依赖，任一端不可达则直接退出——
	// 不允许进程在没有效果的情况下静默空转
	var (
		db *gorm.DB
		es *elasticsearch.Client
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		db, err = repository.InitDB(cfg.DatabaseURL)
		return err
	})
	g.Go(func() error {
		var err error
		es, err = search.InitES(cfg.ElasticURL)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("依赖初始化失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 组装同步管道
	st := state.NewState(state.NewJSONFileStorage(cfg.StateFile))
	repo := repository.NewContentRepository(db, cfg.LoadLimit)
	extractor := etl.NewExtractor(repo, st)
	transformer := etl.NewTransformer()
	loader := search.NewLoader(es)
	pipeline := etl.NewPipeline(extractor, transformer, loader, st, cfg.EtlRate)

	log.Println("ETL 进程各模块已就绪")

	// 收到 SIGINT/SIGTERM 后在两个周期之间退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline.Start(ctx)
	log.Println("ETL 进程已退出")
}
